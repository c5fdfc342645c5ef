/*
stock.go - Stock item and movement persistence

The on-hand projection and the movement log are written in the same SQL
transaction: ApplyMovements inserts every movement row and bumps each item's
quantity_on_hand in one commit, so the fold invariant cannot be broken by a
crash between the two writes. Deleting a stock item leaves its movements in
place under the denormalized name.
*/
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aone/bakery-ledger/ledger"
	"github.com/aone/bakery-ledger/stock"
)

// =============================================================================
// STOCK ITEMS (stock.Store interface)
// =============================================================================

func (s *Store) CreateStockItem(ctx context.Context, item stock.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_items (id, name, unit, quantity_on_hand, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Unit,
		item.OnHand.String(),
		item.CreatedAt.UTC().Format(time.RFC3339),
	)
	return ledger.Storage("create stock item", err)
}

// GetStockItem returns nil without error when the item does not exist;
// callers translate that to a not-found failure.
func (s *Store) GetStockItem(ctx context.Context, id string) (*stock.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		item      stock.Item
		onHand    string
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, unit, quantity_on_hand, created_at FROM stock_items WHERE id = ?",
		id,
	).Scan(&item.ID, &item.Name, &item.Unit, &onHand, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ledger.Storage("get stock item", err)
	}

	item.OnHand = ledger.MustParseDec(onHand)
	item.CreatedAt = parseTime(createdAt)
	return &item, nil
}

func (s *Store) ListStockItems(ctx context.Context) ([]stock.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, unit, quantity_on_hand, created_at FROM stock_items ORDER BY name")
	if err != nil {
		return nil, ledger.Storage("list stock items", err)
	}
	defer rows.Close()

	var items []stock.Item
	for rows.Next() {
		var (
			item      stock.Item
			onHand    string
			createdAt string
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Unit, &onHand, &createdAt); err != nil {
			return nil, ledger.Storage("scan stock item", err)
		}
		item.OnHand = ledger.MustParseDec(onHand)
		item.CreatedAt = parseTime(createdAt)
		items = append(items, item)
	}
	return items, ledger.Storage("list stock items", rows.Err())
}

// DeleteStockItem removes the item row only. Movement history is retained.
func (s *Store) DeleteStockItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM stock_items WHERE id = ?", id)
	return ledger.Storage("delete stock item", err)
}

// =============================================================================
// MOVEMENTS
// =============================================================================

// ApplyMovements writes every movement and its on-hand projection update in
// one transaction. All succeed or none do.
func (s *Store) ApplyMovements(ctx context.Context, movements []stock.Movement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, "apply movements", func(tx *sql.Tx) error {
		for _, m := range movements {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO stock_movements
				(id, stock_item_id, stock_item_name, movement_type, quantity,
				 employee_name, supplier_name, notes, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				m.ID, m.ItemID, m.ItemName, m.Type,
				m.Quantity.String(),
				nullString(m.EmployeeName), nullString(m.SupplierName), nullString(m.Notes),
				m.CreatedAt.UTC().Format(time.RFC3339),
			)
			if err != nil {
				return ledger.Storage("insert movement", err)
			}

			// Projection update stays decimal: read, add in Go, write back.
			var onHand string
			err = tx.QueryRowContext(ctx,
				"SELECT quantity_on_hand FROM stock_items WHERE id = ?", m.ItemID,
			).Scan(&onHand)
			if err == sql.ErrNoRows {
				return ledger.ErrNotFound
			}
			if err != nil {
				return ledger.Storage("read quantity on hand", err)
			}

			// The projection must never go negative; a movement that would
			// overdraw the item aborts the whole transaction.
			updated := ledger.MustParseDec(onHand).Add(m.Signed())
			if updated.IsNegative() {
				return &ledger.InsufficientStockError{
					ItemID:    m.ItemID,
					ItemName:  m.ItemName,
					OnHand:    ledger.MustParseDec(onHand),
					Requested: m.Quantity,
				}
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE stock_items SET quantity_on_hand = ? WHERE id = ?",
				updated.String(), m.ItemID,
			); err != nil {
				return ledger.Storage("update quantity on hand", err)
			}
		}
		return nil
	})
}

func (s *Store) StockMovements(ctx context.Context, filter stock.MovementFilter) ([]stock.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, stock_item_id, stock_item_name, movement_type, quantity,
		       employee_name, supplier_name, notes, created_at
		FROM stock_movements
		WHERE 1=1`
	var args []any

	if filter.ItemID != "" {
		query += " AND stock_item_id = ?"
		args = append(args, filter.ItemID)
	}
	if filter.Type != nil {
		query += " AND movement_type = ?"
		args = append(args, string(*filter.Type))
	}
	if filter.From != nil {
		query += " AND created_at >= ?"
		args = append(args, dayStart(*filter.From))
	}
	if filter.To != nil {
		query += " AND created_at < ?"
		args = append(args, dayAfter(*filter.To))
	}
	if filter.OldestFirst {
		query += " ORDER BY created_at ASC, id ASC"
	} else {
		query += " ORDER BY created_at DESC, id DESC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledger.Storage("query movements", err)
	}
	defer rows.Close()

	var movements []stock.Movement
	for rows.Next() {
		var (
			m                             stock.Movement
			quantity, createdAt           string
			employee, supplierName, notes sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.ItemID, &m.ItemName, &m.Type, &quantity,
			&employee, &supplierName, &notes, &createdAt); err != nil {
			return nil, ledger.Storage("scan movement", err)
		}
		m.Quantity = ledger.MustParseDec(quantity)
		m.EmployeeName = employee.String
		m.SupplierName = supplierName.String
		m.Notes = notes.String
		m.CreatedAt = parseTime(createdAt)
		movements = append(movements, m)
	}
	return movements, ledger.Storage("query movements", rows.Err())
}

// Inclusive day-range boundaries over RFC3339 text timestamps. Timestamps
// are stored in UTC, so the boundaries are UTC days too.

func dayStart(t time.Time) string {
	u := t.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return d.Format(time.RFC3339)
}

func dayAfter(t time.Time) string {
	u := t.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return d.Format(time.RFC3339)
}
