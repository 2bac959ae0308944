package services

import (
	"strings"

	"twinkle/internal/domain"
)

// CategoryAll selects every category.
const CategoryAll = "ALL"

// FilterState is the ephemeral, UI-local filter selection. Zero values mean
// "no constraint": CategoryAll (or empty), MaxPrice 0, empty query.
type FilterState struct {
	Category string
	MaxPrice int
	Query    string
}

// ApplyFilters reduces the catalog to products passing every predicate.
// Predicates are a pure conjunction, so application order never changes the
// result; input order is preserved.
func ApplyFilters(products []domain.Product, f FilterState) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && f.Category != CategoryAll && string(p.Category) != f.Category {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CategoryFromHint maps an external category hint (e.g. a link parameter)
// onto a category filter. Matching is case-insensitive on the substrings
// "perfume" / "accessory"; anything else selects all categories.
func CategoryFromHint(hint string) string {
	up := strings.ToUpper(hint)
	switch {
	case strings.Contains(up, "PERFUME"):
		return string(domain.CategoryPerfume)
	case strings.Contains(up, "ACCESSORY"):
		return string(domain.CategoryAccessory)
	}
	return CategoryAll
}
