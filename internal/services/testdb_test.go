package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	schema := `
	CREATE TABLE products(id TEXT PRIMARY KEY, title TEXT, description TEXT, brand TEXT DEFAULT '',
	  price INTEGER, stock INTEGER, category TEXT, images_json TEXT DEFAULT '[]',
	  attrs_json TEXT DEFAULT '', is_featured INTEGER DEFAULT 0, created_at TEXT, updated_at TEXT);
	CREATE TABLE carts(id TEXT PRIMARY KEY, session_id TEXT UNIQUE NOT NULL, updated_at TEXT);
	CREATE TABLE cart_items(cart_id TEXT, product_id TEXT, qty INTEGER, price_at_add INTEGER,
	  created_at TEXT, updated_at TEXT, PRIMARY KEY(cart_id, product_id));
	CREATE TABLE orders(id TEXT PRIMARY KEY, session_id TEXT, customer_name TEXT, customer_phone TEXT,
	  customer_address TEXT, governorate TEXT, notes TEXT, subtotal INTEGER, shipping INTEGER,
	  total INTEGER, status TEXT, created_at TEXT);
	CREATE TABLE order_items(order_id TEXT, product_id TEXT, title TEXT, qty INTEGER, price INTEGER,
	  PRIMARY KEY(order_id, product_id));
	CREATE TABLE audit_logs(id TEXT PRIMARY KEY, user_id TEXT, user_name TEXT, action TEXT, created_at TEXT);
	CREATE TABLE media(seq INTEGER PRIMARY KEY AUTOINCREMENT, path TEXT UNIQUE, created_at TEXT);

	INSERT INTO products(id,title,description,brand,price,stock,category,images_json,created_at) VALUES
	  ('p001','Twinkle Signature Gold','Flagship fragrance','Twinkle',1250,45,'PERFUME','["products/perfumes/perfume-001.jpg"]','2024-01-01'),
	  ('p002','Black Night','Evening perfume','Twinkle',1300,18,'PERFUME','["products/perfumes/perfume-002.jpg"]','2024-01-02'),
	  ('a001','The Layered Gold Edit','Gold-plated chains','',450,3,'ACCESSORY','["products/accessories/accessory-001.jpg"]','2024-01-03');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}
