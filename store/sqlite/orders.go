/*
orders.go - Order persistence

An order and its line items are written in one transaction; the foreign key
cascade removes the items when the order row is deleted.
*/
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aone/bakery-ledger/ledger"
	"github.com/aone/bakery-ledger/orders"
)

// =============================================================================
// ORDERS (orders.Store interface)
// =============================================================================

// InsertOrder writes the order row and every line item atomically.
func (s *Store) InsertOrder(ctx context.Context, o orders.Order, items []orders.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, "insert order", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (id, driver_id, vehicle_id, total_quantity, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			o.ID, nullString(o.DriverID), nullString(o.VehicleID),
			o.TotalQuantity.String(),
			o.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return ledger.Storage("insert order", err)
		}

		for _, it := range items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, item_type, trollies_or_qty, quantity)
				VALUES (?, ?, ?, ?)`,
				it.OrderID, string(it.ItemType),
				it.TrolliesOrQty.String(), it.Quantity.String(),
			)
			if err != nil {
				return ledger.Storage("insert order item", err)
			}
		}
		return nil
	})
}

func (s *Store) GetOrder(ctx context.Context, id string) (*orders.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		o                  orders.Order
		driver, vehicle    sql.NullString
		total, createdAt   string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, driver_id, vehicle_id, total_quantity, created_at FROM orders WHERE id = ?",
		id,
	).Scan(&o.ID, &driver, &vehicle, &total, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ledger.Storage("get order", err)
	}

	o.DriverID = driver.String
	o.VehicleID = vehicle.String
	o.TotalQuantity = ledger.MustParseDec(total)
	o.CreatedAt = parseTime(createdAt)
	return &o, nil
}

func (s *Store) OrderItems(ctx context.Context, orderID string) ([]orders.OrderItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, item_type, trollies_or_qty, quantity
		FROM order_items WHERE order_id = ? ORDER BY rowid`,
		orderID)
	if err != nil {
		return nil, ledger.Storage("query order items", err)
	}
	defer rows.Close()

	var items []orders.OrderItem
	for rows.Next() {
		var (
			it                  orders.OrderItem
			itemType            string
			trolliesOrQty, qty  string
		)
		if err := rows.Scan(&it.OrderID, &itemType, &trolliesOrQty, &qty); err != nil {
			return nil, ledger.Storage("scan order item", err)
		}
		it.ItemType = orders.ItemType(itemType)
		it.TrolliesOrQty = ledger.MustParseDec(trolliesOrQty)
		it.Quantity = ledger.MustParseDec(qty)
		items = append(items, it)
	}
	return items, ledger.Storage("query order items", rows.Err())
}

func (s *Store) ListOrders(ctx context.Context) ([]orders.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, driver_id, vehicle_id, total_quantity, created_at FROM orders ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, ledger.Storage("list orders", err)
	}
	defer rows.Close()

	var out []orders.Order
	for rows.Next() {
		var (
			o                orders.Order
			driver, vehicle  sql.NullString
			total, createdAt string
		)
		if err := rows.Scan(&o.ID, &driver, &vehicle, &total, &createdAt); err != nil {
			return nil, ledger.Storage("scan order", err)
		}
		o.DriverID = driver.String
		o.VehicleID = vehicle.String
		o.TotalQuantity = ledger.MustParseDec(total)
		o.CreatedAt = parseTime(createdAt)
		out = append(out, o)
	}
	return out, ledger.Storage("list orders", rows.Err())
}

// DeleteOrder removes the order; the item rows cascade.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return ledger.Storage("delete order", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
