// Package store persists shop records in a local SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInUse             = errors.New("record is referenced by other records")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Store wraps the shop database.
type Store struct {
	db     *sql.DB
	dbPath string
	log    *zap.Logger
}

// Open opens or creates the database at path and makes sure the schema
// exists. ":memory:" gives a private in-memory database.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.L()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: SQLite serialises writers anyway, and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: path, log: log.Named("store")}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS clients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		document TEXT NOT NULL,
		address TEXT,
		phone TEXT,
		email TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS vehicles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plate TEXT NOT NULL,
		brand TEXT NOT NULL,
		model TEXT NOT NULL,
		year INTEGER,
		color TEXT,
		client_id INTEGER,
		brand_code TEXT,
		model_code TEXT,
		FOREIGN KEY (client_id) REFERENCES clients (id)
	);

	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		document TEXT NOT NULL,
		role TEXT,
		hire_date TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS parts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL,
		description TEXT NOT NULL,
		stock_quantity INTEGER DEFAULT 0,
		buy_price REAL,
		sell_price REAL,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS service_orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		number TEXT NOT NULL,
		open_date TEXT,
		vehicle_id INTEGER,
		description TEXT,
		status TEXT,
		employee_id INTEGER,
		completion_date TEXT,
		total_value REAL,
		payment_method TEXT,
		client_signature TEXT,
		mechanic_signature TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (vehicle_id) REFERENCES vehicles (id),
		FOREIGN KEY (employee_id) REFERENCES employees (id)
	);
	CREATE INDEX IF NOT EXISTS idx_orders_open_date ON service_orders(open_date);

	CREATE TABLE IF NOT EXISTS order_parts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER,
		part_id INTEGER,
		quantity INTEGER,
		price REAL,
		FOREIGN KEY (order_id) REFERENCES service_orders (id),
		FOREIGN KEY (part_id) REFERENCES parts (id)
	);
	CREATE INDEX IF NOT EXISTS idx_order_parts_order ON order_parts(order_id);

	CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT,
		description TEXT,
		value REAL,
		category TEXT,
		payment_method TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// count runs a COUNT(*) query.
func (s *Store) count(query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// execOne runs a single-row UPDATE or DELETE and maps "no rows" to ErrNotFound.
func (s *Store) execOne(query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func likePattern(term string) string {
	return "%" + term + "%"
}

// nullID maps the zero id to NULL so optional foreign keys stay valid.
func nullID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
