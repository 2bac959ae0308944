package services

import (
	"errors"
	"fmt"

	"twinkle/internal/domain"
	"twinkle/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
	Audit *repos.AuditRepo
}

func NewCatalogService(prods *repos.ProductRepo, audit *repos.AuditRepo) *CatalogService {
	return &CatalogService{Prods: prods, Audit: audit}
}

func (s *CatalogService) List() ([]domain.Product, error) {
	return s.Prods.List()
}

// Filtered loads the catalog and applies the filter state in memory.
func (s *CatalogService) Filtered(f FilterState) ([]domain.Product, error) {
	all, err := s.Prods.List()
	if err != nil {
		return nil, err
	}
	return ApplyFilters(all, f), nil
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

// Save creates or updates a product and records who did it. Products always
// carry at least one image after normalization.
func (s *CatalogService) Save(p domain.Product, by *domain.User) error {
	if p.ID == "" || p.Title == "" {
		return errors.New("product requires id and title")
	}
	if p.Price < 0 || p.Stock < 0 {
		return errors.New("price and stock must be non-negative")
	}
	if len(p.Images()) == 0 {
		p.SetImages([]string{"products/fallback.jpg"})
	}

	verb := "Created"
	if _, err := s.Prods.Get(p.ID); err == nil {
		verb = "Updated"
	}
	if err := s.Prods.Save(p); err != nil {
		return err
	}
	return s.Audit.Append(by.ID, by.Name, fmt.Sprintf("%s product: %s", verb, p.Title))
}

func (s *CatalogService) Delete(id string, by *domain.User) error {
	if err := s.Prods.Delete(id); err != nil {
		return err
	}
	return s.Audit.Append(by.ID, by.Name, "Deleted product ID: "+id)
}

// Availability converts stock to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *CatalogService) Availability(productID string) (domain.Availability, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return domain.Availability{}, err
	}
	status := "OUT_OF_STOCK"
	switch {
	case p.Stock >= 5:
		status = "IN_STOCK"
	case p.Stock > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: p.Stock}, nil
}
