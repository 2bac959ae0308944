package services

import (
	"errors"

	"twinkle/internal/repos"
)

// ErrQtyTooLow rejects a delta that would leave a line below one unit.
var ErrQtyTooLow = errors.New("quantity cannot fall below one")

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add applies a signed quantity delta for one product: positive from the
// add-to-cart control, negative from the decrement control. The merge itself
// is the plain sum and is not clamped to live stock; the only bound enforced
// here is that no line ever drops below one unit.
func (s *CartService) Add(sessionID, productID string, delta int) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	current, err := s.Carts.ItemQty(cartID, productID)
	if err != nil {
		return err
	}
	if current+delta < 1 {
		return ErrQtyTooLow
	}
	return s.Carts.UpsertItem(cartID, productID, delta, p.Price)
}

func (s *CartService) Remove(sessionID, productID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, productID)
}

func (s *CartService) Clear(sessionID string) error {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}

type CartView struct {
	Items    []repos.CartItemRow `json:"items"`
	Count    int                 `json:"count"`
	Subtotal int                 `json:"subtotal"`
}

// View derives count and subtotal from the lines on every read; nothing is
// cached.
func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return CartView{}, err
	}
	cv := CartView{Items: items}
	for _, it := range items {
		cv.Count += it.Qty
		cv.Subtotal += it.Subtotal
	}
	return cv, nil
}
