package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "twinkle/internal/log"
	"twinkle/internal/notify"
	"twinkle/internal/repos"
	"twinkle/internal/services"
	"twinkle/internal/validate"
)

type OrderHandler struct {
	Order   *services.OrderService
	Repo    *repos.OrderRepo
	Contact string
}

// Place validates the shipping form and submits the session's cart as an
// order. The response carries the notification link the client opens for
// manual fulfillment follow-up.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var body struct {
		Name        string `json:"name"`
		Phone       string `json:"phone"`
		Address     string `json:"address"`
		Governorate string `json:"governorate"`
		Notes       string `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	name, ok := validate.Name(body.Name)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enter your full name"})
	}
	phone, ok := validate.Phone(body.Phone)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "phone"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enter a valid phone number"})
	}
	address, ok := validate.Address(body.Address)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "address"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enter a detailed address"})
	}
	gov, ok := validate.Governorate(body.Governorate)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "governorate"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "select a governorate"})
	}

	ship := services.ShippingDetails{
		Name: name, Phone: phone, Address: address, Governorate: gov, Notes: body.Notes,
	}
	order, items, err := h.Order.Place(sid, ship)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not place order"})
	}

	applog.Audit(c, "order.place", map[string]any{"order_id": order.ID, "total": order.Total})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":     order,
		"items":     items,
		"notifyUrl": notify.WhatsAppLink(h.Contact, order, items),
	})
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	o, items, err := h.Repo.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	return c.JSON(fiber.Map{"order": o, "items": items})
}
