package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"twinkle/internal/domain"
	applog "twinkle/internal/log"
	"twinkle/internal/services"
	"twinkle/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// productView flattens the stored JSON columns for API consumers.
type productView struct {
	domain.Product
	Images     []string           `json:"images"`
	Attributes *domain.Attributes `json:"attributes,omitempty"`
}

func toView(p domain.Product) productView {
	v := productView{Product: p, Images: p.Images()}
	if a := p.Attributes(); !a.IsZero() {
		v.Attributes = &a
	}
	return v
}

func toViews(ps []domain.Product) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, toView(p))
	}
	return out
}

// List applies the catalog filters. "category" is the in-page selection;
// "cat" is the external link hint used only when no explicit category is
// given.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := services.FilterState{Category: services.CategoryAll}

	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		f.Category = strings.ToUpper(cat)
	} else if hint := c.Query("cat"); hint != "" {
		f.Category = services.CategoryFromHint(hint)
	}

	if mp := c.Query("maxPrice"); mp != "" {
		n, err := strconv.Atoi(mp)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid maxPrice"})
		}
		f.MaxPrice = n
	}

	if rawQ := c.Query("q"); strings.TrimSpace(rawQ) != "" {
		q, ok := validate.Q(rawQ)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enter a valid keyword"})
		}
		f.Query = q
	}

	products, err := h.Catalog.Filtered(f)
	if err != nil {
		applog.Error(c, "products.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}
	return c.JSON(fiber.Map{"products": toViews(products), "count": len(products)})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "this item is no longer available"})
	}
	p, err := h.Catalog.Get(id)
	if err != nil || p.ID == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "this item is no longer available"})
	}
	return c.JSON(toView(p))
}

func (h *ProductHandler) Availability(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	avail, err := h.Catalog.Availability(productID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown product"})
	}
	return c.JSON(avail)
}
