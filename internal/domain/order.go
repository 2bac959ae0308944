package domain

import "errors"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the forward chain
// PENDING -> CONFIRMED -> SHIPPED -> DELIVERED allows moving to next.
// CANCELLED is reachable from any non-terminal state. DELIVERED and
// CANCELLED are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() || s == next {
		return false
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered || next == StatusCancelled
	}
	return false
}

type Order struct {
	ID          string      `db:"id" json:"id"`
	Customer    string      `db:"customer_name" json:"customerName"`
	Phone       string      `db:"customer_phone" json:"customerPhone"`
	Address     string      `db:"customer_address" json:"customerAddress"`
	Governorate string      `db:"governorate" json:"governorate"`
	Notes       string      `db:"notes" json:"notes,omitempty"`
	Subtotal    int         `db:"subtotal" json:"subtotal"`
	Shipping    int         `db:"shipping" json:"shipping"`
	Total       int         `db:"total" json:"total"`
	Status      OrderStatus `db:"status" json:"status"`
	CreatedAt   string      `db:"created_at" json:"date"`
}

// OrderItem is a snapshot of a cart line at submission time. Price is the
// price captured when the item was added, not the live catalog price.
type OrderItem struct {
	ProductID string `db:"product_id" json:"productId"`
	Title     string `db:"title" json:"title"`
	Qty       int    `db:"qty" json:"quantity"`
	Price     int    `db:"price" json:"price"`
}
