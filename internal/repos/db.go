package repos

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline catalog/media if DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure staff accounts exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  brand TEXT DEFAULT '',
  price INTEGER NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  category TEXT NOT NULL CHECK (category IN ('PERFUME','ACCESSORY','BUNDLE')),
  images_json TEXT DEFAULT '[]',
  attrs_json TEXT DEFAULT '',
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_title    ON products(LOWER(title));

-- Carts
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  price_at_add INTEGER NOT NULL,
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (cart_id, product_id)
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  session_id TEXT,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  customer_address TEXT NOT NULL,
  governorate TEXT NOT NULL,
  notes TEXT DEFAULT '',
  subtotal INTEGER NOT NULL,
  shipping INTEGER NOT NULL,
  total INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL,
  title TEXT NOT NULL,
  qty INTEGER NOT NULL,
  price INTEGER NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

-- Audit log (append-only)
CREATE TABLE IF NOT EXISTS audit_logs(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  user_name TEXT NOT NULL,
  action TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_logs(created_at);

-- Media library (ordered by insertion)
CREATE TABLE IF NOT EXISTS media(
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  path TEXT NOT NULL UNIQUE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('OWNER','EDITOR','VIEWER')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting initial catalog and media library")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,title,description,brand,price,stock,category,images_json,attrs_json,is_featured) VALUES
	  ('p001','Twinkle Signature Gold','Our flagship fragrance. A sophisticated blend of roasted chestnut, warm vanilla, and aromatic sage in a luxurious gold bottle.','Twinkle',1250,45,'PERFUME','["products/perfumes/perfume-001.jpg"]','{"size":"100ml","concentration":"Eau de Parfum","notes":"Chestnut, Vanilla, Sage","gender":"Unisex"}',1),
	  ('p002','Black Night','A romantic and dreamy perfume with sensual hints of jasmine and deep musk. Perfect for evening wear.','Twinkle',1300,18,'PERFUME','["products/perfumes/perfume-002.jpg"]','{"size":"100ml","concentration":"Parfum","notes":"Jasmine, Black Musk, Amber","gender":"Female"}',1),
	  ('p003','Casablanca White','A refreshing white fragrance inspired by lush riad gardens. Crisp, clean, and invigorating.','Twinkle',1150,25,'PERFUME','["products/perfumes/perfume-003.jpg"]','{"size":"100ml","concentration":"Eau de Parfum","notes":"White Tea, Neroli, Musk","gender":"Unisex"}',0),
	  ('p004','Zomorrodah Emerald','A fragrance that embodies the timeless beauty and sophistication of emeralds. Rich, green, and luxurious.','Twinkle',1500,10,'PERFUME','["products/perfumes/perfume-004.jpg"]','{"size":"100ml","concentration":"Parfum","notes":"Emerald Orchid, Vetiver, Sandalwood","gender":"Female"}',1),
	  ('p005','Royal Blue Oud','An ornate masterpiece. Deep blue oud encased in a handcrafted bottle. Smoky, woody, and intense.','Twinkle',1600,8,'PERFUME','["products/perfumes/perfume-005.jpg"]','{"size":"80ml","concentration":"Extrait de Parfum","notes":"Blue Oud, Incense, Leather","gender":"Unisex"}',0),
	  ('p009','Oud Wood Intense','Dark and commanding oud for the connoisseur.','Twinkle',1800,5,'PERFUME','["products/perfumes/perfume-009.jpg"]','{"size":"80ml","concentration":"Parfum","notes":"Oud, Smoke, Resin","gender":"Male"}',0),
	  ('a001','The Layered Gold Edit','A curated set of three gold-plated chains. Includes a snake chain and pendant.','',450,25,'ACCESSORY','["products/accessories/accessory-001.jpg"]','{"material":"18K Gold Plated","color":"Gold"}',1),
	  ('a002','Stacked Ring Set','Set of 5 delicate bands including textured and smooth finishes.','',390,22,'ACCESSORY','["products/accessories/accessory-002.jpg"]','{"material":"Gold Plated","color":"Gold"}',0),
	  ('a003','Pearl & Gold Drop Earrings','Genuine freshwater pearls suspended from a gold-plated hoop. Classic elegance.','',380,15,'ACCESSORY','["products/accessories/accessory-003.jpg"]','{"material":"Freshwater Pearl, Gold Plated","color":"Gold/White"}',0),
	  ('a004','Classic Tennis Bracelet','Timeless luxury. A delicate line of cubic zirconia set in gold plating.','',550,30,'ACCESSORY','["products/accessories/accessory-004.jpg"]','{"material":"Gold Plated, CZ","color":"Gold"}',0)`)

	for i := 1; i <= 20; i++ {
		tx.MustExec(`INSERT INTO media(path) VALUES(?)`,
			fmt.Sprintf("products/perfumes/perfume-%03d.jpg", i))
	}
	for i := 1; i <= 30; i++ {
		tx.MustExec(`INSERT INTO media(path) VALUES(?)`,
			fmt.Sprintf("products/accessories/accessory-%03d.jpg", i))
	}

	return tx.Commit()
}

// seedUsers ensures the owner and editor accounts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u1", "admin@twinkle.com", "Owner", "OWNER", "admin"),
		mk("u2", "editor@twinkle.com", "Editor", "EDITOR", "editor"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
