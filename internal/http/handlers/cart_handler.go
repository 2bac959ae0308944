package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "twinkle/internal/log"
	"twinkle/internal/services"
	"twinkle/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load cart"})
	}
	return c.JSON(cv)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var body struct {
		ProductID string `json:"productId"`
		Qty       string `json:"qty"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	productID, ok := validate.ID(body.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	qty, ok := validate.Qty(body.Qty)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid quantity"})
	}

	if err := h.Cart.Add(sid, productID, qty); err != nil {
		if errors.Is(err, services.ErrQtyTooLow) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quantity cannot go below 1"})
		}
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": productID})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not add to cart"})
	}
	cv, err := h.Cart.View(sid)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load cart"})
	}
	return c.JSON(cv)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.Params("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	if err := h.Cart.Remove(sid, productID); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product": productID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update cart"})
	}
	cv, err := h.Cart.View(sid)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load cart"})
	}
	return c.JSON(cv)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.Clear(sid); err != nil {
		applog.Error(c, "cart.clear.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not clear cart"})
	}
	return c.JSON(services.CartView{Items: nil, Count: 0, Subtotal: 0})
}
