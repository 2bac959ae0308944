package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"twinkle/internal/domain"
	applog "twinkle/internal/log"
	"twinkle/internal/repos"
	"twinkle/internal/services"
	"twinkle/internal/validate"
)

type AdminHandler struct {
	Catalog *services.CatalogService
	Order   *services.OrderService
	Orders  *repos.OrderRepo
	Audit   *repos.AuditRepo
	Media   *repos.MediaRepo
}

type productInput struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Brand       string             `json:"brand"`
	Price       int                `json:"price"`
	Stock       int                `json:"stock"`
	Category    string             `json:"category"`
	Images      []string           `json:"images"`
	Attributes  *domain.Attributes `json:"attributes"`
	IsFeatured  bool               `json:"isFeatured"`
}

// POST /admin/products
func (h *AdminHandler) SaveProduct(c *fiber.Ctx) error {
	var in productInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	id, ok := validate.ID(in.ID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	cat := domain.Category(strings.ToUpper(in.Category))
	switch cat {
	case domain.CategoryPerfume, domain.CategoryAccessory, domain.CategoryBundle:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid category"})
	}

	p := domain.Product{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Brand:       in.Brand,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    cat,
		IsFeatured:  in.IsFeatured,
	}
	p.SetImages(in.Images)
	if in.Attributes != nil {
		p.SetAttributes(*in.Attributes)
	}

	if err := h.Catalog.Save(p, currentUser(c)); err != nil {
		applog.Error(c, "admin.product.save.fail", err, map[string]any{"product": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not save product"})
	}
	applog.Audit(c, "admin.product.save", map[string]any{"product": id})
	return c.JSON(fiber.Map{"ok": true})
}

// DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Catalog.Delete(id, currentUser(c)); err != nil {
		applog.Error(c, "admin.product.delete.fail", err, map[string]any{"product": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not delete product"})
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product": id})
	return c.JSON(fiber.Map{"ok": true})
}

// GET /admin/orders
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	return c.JSON(fiber.Map{"orders": ords})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing order id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	next := domain.OrderStatus(strings.ToUpper(strings.TrimSpace(body.Status)))

	if err := h.Order.UpdateStatus(id, next, currentUser(c)); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			applog.Security(c, "admin.orders.transition.reject", map[string]any{"order_id": id, "to": next})
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not update status"})
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": next})
	return c.JSON(fiber.Map{"ok": true})
}

// GET /admin/logs
func (h *AdminHandler) ListAuditLogs(c *fiber.Ctx) error {
	logs, err := h.Audit.ListLatest(200)
	if err != nil {
		applog.Error(c, "admin.logs.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load logs"})
	}
	return c.JSON(fiber.Map{"logs": logs})
}

// GET /admin/media
func (h *AdminHandler) ListMedia(c *fiber.Ctx) error {
	paths, err := h.Media.List()
	if err != nil {
		applog.Error(c, "admin.media.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load media"})
	}
	return c.JSON(fiber.Map{"media": paths})
}

// POST /admin/media
func (h *AdminHandler) AddMedia(c *fiber.Ctx) error {
	var body struct {
		Path string `json:"path"`
	}
	if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.Path) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing path"})
	}
	path := strings.TrimSpace(body.Path)
	if err := h.Media.Add(path); err != nil {
		applog.Error(c, "admin.media.add.fail", err, map[string]any{"path": path})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not save media"})
	}
	u := currentUser(c)
	_ = h.Audit.Append(u.ID, u.Name, "Added image ref: "+path)
	applog.Audit(c, "admin.media.add", map[string]any{"path": path})
	return c.JSON(fiber.Map{"ok": true})
}
