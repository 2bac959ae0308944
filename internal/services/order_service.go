package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"twinkle/internal/domain"
	"twinkle/internal/repos"
)

const (
	// Flat delivery fee in EGP, waived once the subtotal strictly exceeds
	// the free-shipping threshold.
	ShippingFee           = 50
	FreeShippingThreshold = 1500
)

type ShippingDetails struct {
	Name        string
	Phone       string
	Address     string
	Governorate string
	Notes       string
}

type OrderService struct {
	Carts  *repos.CartRepo
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
	Audit  *repos.AuditRepo
}

func NewOrderService(carts *repos.CartRepo, prods *repos.ProductRepo, orders *repos.OrderRepo, audit *repos.AuditRepo) *OrderService {
	return &OrderService{Carts: carts, Prods: prods, Orders: orders, Audit: audit}
}

func newOrderID() string {
	ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return "ORD-" + ms[len(ms)-6:]
}

// Place converts the session's cart into a PENDING order, decrements stock
// per line (floored at 0) and clears the cart. The order write and the stock
// decrements are separate statements; a failure in between leaves stock
// untouched for the remaining lines and is surfaced to the caller.
func (s *OrderService) Place(sessionID string, ship ShippingDetails) (domain.Order, []domain.OrderItem, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return domain.Order{}, nil, err
	}

	rows, err := s.Carts.Items(cartID)
	if err != nil {
		return domain.Order{}, nil, err
	}
	if len(rows) == 0 {
		return domain.Order{}, nil, errors.New("cart empty")
	}

	subtotal := 0
	items := make([]domain.OrderItem, 0, len(rows))
	for _, it := range rows {
		subtotal += it.Subtotal
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			Qty:       it.Qty,
			Price:     it.PriceAtAdd,
		})
	}

	shipping := ShippingFee
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}

	o := domain.Order{
		ID:          newOrderID(),
		Customer:    ship.Name,
		Phone:       ship.Phone,
		Address:     ship.Address,
		Governorate: ship.Governorate,
		Notes:       ship.Notes,
		Subtotal:    subtotal,
		Shipping:    shipping,
		Total:       subtotal + shipping,
		Status:      domain.StatusPending,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.Orders.Create(o, sessionID); err != nil {
		return domain.Order{}, nil, err
	}
	for _, it := range items {
		if err := s.Orders.InsertItem(o.ID, it); err != nil {
			return domain.Order{}, nil, err
		}
	}

	for _, it := range items {
		if err := s.Prods.DecrementStock(it.ProductID, it.Qty); err != nil {
			return domain.Order{}, nil, err
		}
	}

	_ = s.Carts.Clear(cartID)
	return o, items, nil
}

// UpdateStatus applies an admin status change after checking it against the
// transition graph; anything outside the graph is rejected.
func (s *OrderService) UpdateStatus(orderID string, next domain.OrderStatus, by *domain.User) error {
	current, err := s.Orders.Status(orderID)
	if err != nil {
		return err
	}
	if !current.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current, next)
	}
	if err := s.Orders.UpdateStatus(orderID, next); err != nil {
		return err
	}
	return s.Audit.Append(by.ID, by.Name, fmt.Sprintf("Updated Order #%s to %s", orderID, next))
}
