package repos

import (
	"github.com/jmoiron/sqlx"

	"twinkle/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// List returns the whole catalog in creation order. The storefront loads it
// wholesale and filters in memory.
func (r *ProductRepo) List() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT id, title, COALESCE(description,'') AS description, COALESCE(brand,'') AS brand,
	         price, stock, category,
	         images_json, attrs_json, is_featured,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  ORDER BY created_at, id
	`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT id, title, COALESCE(description,'') AS description, COALESCE(brand,'') AS brand,
	         price, stock, category,
	         images_json, attrs_json, is_featured,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE id = ?
	`, id)
	return p, err
}

// Save inserts a new product or replaces every descriptive field of an
// existing one.
func (r *ProductRepo) Save(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,title,description,brand,price,stock,category,images_json,attrs_json,is_featured,created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(id) DO UPDATE SET
	    title=excluded.title, description=excluded.description, brand=excluded.brand,
	    price=excluded.price, stock=excluded.stock, category=excluded.category,
	    images_json=excluded.images_json, attrs_json=excluded.attrs_json,
	    is_featured=excluded.is_featured, updated_at=CURRENT_TIMESTAMP
	`, p.ID, p.Title, p.Description, p.Brand, p.Price, p.Stock, p.Category,
		p.ImagesJSON, p.AttrsJSON, p.IsFeatured)
	return err
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}

// DecrementStock subtracts "by" units, never going below zero. Ordering more
// than is on hand leaves stock at 0 rather than failing.
func (r *ProductRepo) DecrementStock(id string, by int) error {
	_, err := r.db.Exec(`
	  UPDATE products SET stock = MAX(0, stock - ?), updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, by, id)
	return err
}

// ReplaceImages swaps the product's image list for the given paths.
func (r *ProductRepo) ReplaceImages(id string, paths []string) error {
	var p domain.Product
	p.SetImages(paths)
	_, err := r.db.Exec(`
	  UPDATE products SET images_json = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, p.ImagesJSON, id)
	return err
}
