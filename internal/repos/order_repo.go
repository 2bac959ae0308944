package repos

import (
	"github.com/jmoiron/sqlx"

	"twinkle/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts a new order header with status PENDING.
func (r *OrderRepo) Create(o domain.Order, sessionID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO orders
	    (id, session_id, customer_name, customer_phone, customer_address, governorate, notes,
	     subtotal, shipping, total, status, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
	`, o.ID, sessionID, o.Customer, o.Phone, o.Address, o.Governorate, o.Notes,
		o.Subtotal, o.Shipping, o.Total, domain.StatusPending, o.CreatedAt)
	return err
}

// InsertItem inserts a single snapshot line item.
func (r *OrderRepo) InsertItem(orderID string, it domain.OrderItem) error {
	_, err := r.db.Exec(`
	  INSERT INTO order_items(order_id, product_id, title, qty, price)
	  VALUES(?, ?, ?, ?, ?)
	`, orderID, it.ProductID, it.Title, it.Qty, it.Price)
	return err
}

func (r *OrderRepo) Get(orderID string) (domain.Order, []domain.OrderItem, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
		SELECT id, customer_name, customer_phone, customer_address, governorate, notes,
		       subtotal, shipping, total, status, created_at
		FROM orders WHERE id = ?
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	var items []domain.OrderItem
	if err := r.db.Select(&items, `
		SELECT product_id, title, qty, price
		FROM order_items WHERE order_id = ?
		ORDER BY rowid
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}

	return o, items, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id, customer_name, customer_phone, customer_address, governorate, notes,
		       subtotal, shipping, total, status, created_at
		FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) Status(orderID string) (domain.OrderStatus, error) {
	var s domain.OrderStatus
	err := r.db.Get(&s, `SELECT status FROM orders WHERE id = ?`, orderID)
	return s, err
}

func (r *OrderRepo) UpdateStatus(id string, status domain.OrderStatus) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}
