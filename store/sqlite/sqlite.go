/*
Package sqlite provides the SQLite-backed implementation of every store
interface in the system.

PURPOSE:
  One embedded database file holds all ledgers. Each domain package declares
  the store interface it needs (stock.Store, credit.Store, finance.Store,
  supplier.Store, orders.Store, fleet.Store); this package implements them
  all on a single *Store.

KEY TABLES:
  stock_items / stock_movements:        stock ledger + append-only log
  employees / credit_transactions:      employee directory + credit ledger
  income / expenses:                    finance ledger
  suppliers / supplier_invoices /
  supplier_payments:                    supplier account ledger
  orders / order_items:                 delivery orders
  vehicles:                             fleet registry

ATOMICITY:
  Multi-step mutations (a movement plus its on-hand projection update, a
  batch of movements, an order with its items) run inside one SQL
  transaction. There are no concurrent writers in this single-user system;
  the transaction guards against crash mid-write, not races.

WAL MODE:
  The database is opened with WAL journaling and foreign keys on, and guarded
  by a sync.RWMutex the same way regardless of caller.

NUMERIC STORAGE:
  Quantities and money are stored as decimal strings, never floats.

USAGE:
  store, err := sqlite.New("./data/bakery.db")   // or ":memory:"
  defer store.Close()
  stockLedger := stock.NewLedger(store)

SEE ALSO:
  - stock.go, credit.go, finance.go, supplier.go, orders.go, fleet.go:
    per-ledger persistence in this package
*/
package sqlite

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aone/bakery-ledger/credit"
	"github.com/aone/bakery-ledger/finance"
	"github.com/aone/bakery-ledger/fleet"
	"github.com/aone/bakery-ledger/ledger"
	"github.com/aone/bakery-ledger/orders"
	"github.com/aone/bakery-ledger/stock"
	"github.com/aone/bakery-ledger/supplier"
)

// Compile-time checks that *Store satisfies every domain store contract.
var (
	_ stock.Store    = (*Store)(nil)
	_ credit.Store   = (*Store)(nil)
	_ finance.Store  = (*Store)(nil)
	_ supplier.Store = (*Store)(nil)
	_ orders.Store   = (*Store)(nil)
	_ fleet.Store    = (*Store)(nil)
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, ledger.Storage("open database", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, ledger.Storage("migrate database", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Stock ledger: items with projected quantity on hand
	CREATE TABLE IF NOT EXISTS stock_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		unit TEXT NOT NULL,
		quantity_on_hand TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Movement log (append-only; survives stock item deletion)
	CREATE TABLE IF NOT EXISTS stock_movements (
		id TEXT PRIMARY KEY,
		stock_item_id TEXT NOT NULL,
		stock_item_name TEXT NOT NULL,
		movement_type TEXT NOT NULL,
		quantity TEXT NOT NULL,
		employee_name TEXT,
		supplier_name TEXT,
		notes TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_movements_item
		ON stock_movements(stock_item_id);
	CREATE INDEX IF NOT EXISTS idx_movements_created_at
		ON stock_movements(created_at);
	CREATE INDEX IF NOT EXISTS idx_movements_type
		ON stock_movements(movement_type);

	-- Employee directory
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		license_expiry TEXT,
		photo_path TEXT,
		created_at TEXT NOT NULL
	);

	-- Credit ledger (mutable rows; balance recomputed on read)
	CREATE TABLE IF NOT EXISTS credit_transactions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		employee_name TEXT NOT NULL,
		transaction_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		reason TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_credit_employee
		ON credit_transactions(employee_id);
	CREATE INDEX IF NOT EXISTS idx_credit_created_at
		ON credit_transactions(created_at);

	-- Finance ledger
	CREATE TABLE IF NOT EXISTS income (
		id TEXT PRIMARY KEY,
		notes TEXT NOT NULL,
		coins TEXT NOT NULL,
		amount_r5 TEXT NOT NULL DEFAULT '0',
		amount_r2 TEXT NOT NULL DEFAULT '0',
		amount_r1 TEXT NOT NULL DEFAULT '0',
		amount_50c TEXT NOT NULL DEFAULT '0',
		total TEXT NOT NULL,
		description TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		amount TEXT NOT NULL,
		amount_r5 TEXT NOT NULL DEFAULT '0',
		amount_r2 TEXT NOT NULL DEFAULT '0',
		amount_r1 TEXT NOT NULL DEFAULT '0',
		amount_50c TEXT NOT NULL DEFAULT '0',
		description TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_income_created_at ON income(created_at);
	CREATE INDEX IF NOT EXISTS idx_expenses_created_at ON expenses(created_at);

	-- Supplier account ledger
	CREATE TABLE IF NOT EXISTS suppliers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		contact_person TEXT,
		phone TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS supplier_invoices (
		id TEXT PRIMARY KEY,
		supplier_id TEXT NOT NULL,
		supplier_name TEXT NOT NULL,
		invoice_number TEXT NOT NULL,
		amount TEXT NOT NULL,
		invoice_date TEXT NOT NULL,
		due_date TEXT,
		notes TEXT
	);

	CREATE TABLE IF NOT EXISTS supplier_payments (
		id TEXT PRIMARY KEY,
		supplier_id TEXT NOT NULL,
		supplier_name TEXT NOT NULL,
		amount TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		reference TEXT,
		notes TEXT,
		payment_date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_supplier
		ON supplier_invoices(supplier_id);
	CREATE INDEX IF NOT EXISTS idx_payments_supplier
		ON supplier_payments(supplier_id);

	-- Orders
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		driver_id TEXT,
		vehicle_id TEXT,
		total_quantity TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS order_items (
		order_id TEXT NOT NULL,
		item_type TEXT NOT NULL,
		trollies_or_qty TEXT NOT NULL,
		quantity TEXT NOT NULL,
		FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);

	-- Fleet registry
	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		registration TEXT NOT NULL,
		license_disk_expiry TEXT,
		disk_number TEXT,
		current_km INTEGER NOT NULL DEFAULT 0,
		last_service_km INTEGER NOT NULL DEFAULT 0,
		service_interval_km INTEGER NOT NULL DEFAULT 10000,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// withTx runs fn inside a database transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Storage(op, err)
	}
	defer sqlTx.Rollback()

	if err := fn(sqlTx); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return ledger.Storage(op, err)
	}
	return nil
}

// Reset clears all data (for demo scenarios and tests).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"stock_movements", "stock_items",
		"credit_transactions", "employees",
		"income", "expenses",
		"supplier_invoices", "supplier_payments", "suppliers",
		"order_items", "orders",
		"vehicles",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return ledger.Storage("reset "+table, err)
		}
	}
	return nil
}

// Helper functions shared by the per-ledger files.

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}
