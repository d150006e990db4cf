package store

import (
	"database/sql"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

type Store struct {
	DB *sql.DB

	// Per-user checkout locks; see PlaceOrder.
	checkoutLocks sync.Map
}

func NewStore(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &Store{DB: db}, nil
}

// InitSchema creates all tables. The server applies migrations/ instead;
// this exists so the CLI and tests can run against a fresh database.
func (s *Store) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name TEXT NOT NULL,
		mobile TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		location TEXT NOT NULL,
		latitude TEXT DEFAULT '',
		longitude TEXT DEFAULT '',
		password TEXT NOT NULL,
		profile_pic TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS services (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		photo TEXT DEFAULT '',
		original_price REAL NOT NULL,
		discount REAL DEFAULT 0,
		final_price REAL NOT NULL,
		description TEXT DEFAULT '',
		status TEXT DEFAULT 'active',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS menu_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		photo TEXT DEFAULT '',
		original_price REAL NOT NULL,
		discount REAL DEFAULT 0,
		final_price REAL NOT NULL,
		description TEXT DEFAULT '',
		status TEXT DEFAULT 'active',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS cart (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		item_type TEXT NOT NULL,
		item_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, item_type, item_id)
	);

	CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_ref TEXT NOT NULL,
		user_id INTEGER NOT NULL REFERENCES users(id),
		total_amount REAL NOT NULL,
		payment_mode TEXT NOT NULL,
		delivery_location TEXT NOT NULL,
		status TEXT DEFAULT 'Pending',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		item_type TEXT NOT NULL,
		item_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		price REAL NOT NULL
	);
	`
	_, err := s.DB.Exec(query)
	if err != nil {
		slog.Error("Error creating schema", "error", err)
		return err
	}
	return nil
}
