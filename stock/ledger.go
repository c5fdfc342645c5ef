/*
ledger.go - Stock ledger operations

PURPOSE:
  Validates and applies stock movements. All writes go through the Store,
  which commits each movement together with its on-hand projection update in
  one local transaction. Validation happens before any write; a batch with one
  bad line writes nothing.

SEE ALSO:
  - types.go: Movement and Item definitions
  - store/sqlite/stock.go: Store implementation
*/
package stock

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aone/bakery-ledger/ledger"
)

// =============================================================================
// STORE - Persistence contract
// =============================================================================

// Store persists items and movements. ApplyMovements must write every
// movement and its projection update atomically, or nothing at all.
type Store interface {
	CreateStockItem(ctx context.Context, item Item) error
	GetStockItem(ctx context.Context, id string) (*Item, error)
	ListStockItems(ctx context.Context) ([]Item, error)

	// DeleteStockItem removes the item row only; movements are retained.
	DeleteStockItem(ctx context.Context, id string) error

	ApplyMovements(ctx context.Context, movements []Movement) error
	StockMovements(ctx context.Context, filter MovementFilter) ([]Movement, error)
}

// =============================================================================
// LEDGER - Operations
// =============================================================================

type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: ledger.Now}
}

// CreateItem registers a new stock item with zero on hand.
func (l *Ledger) CreateItem(ctx context.Context, name, unit string) (*Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ledger.ErrMissingField
	}
	item := Item{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Unit:      unit,
		OnHand:    decimal.Zero,
		CreatedAt: l.now(),
	}
	if err := l.store.CreateStockItem(ctx, item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (l *Ledger) Item(ctx context.Context, id string) (*Item, error) {
	item, err := l.store.GetStockItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ledger.ErrNotFound
	}
	return item, nil
}

func (l *Ledger) Items(ctx context.Context) ([]Item, error) {
	return l.store.ListStockItems(ctx)
}

// DeleteItem removes the item. Movement history stays queryable under the
// denormalized item name.
func (l *Ledger) DeleteItem(ctx context.Context, id string) error {
	if _, err := l.Item(ctx, id); err != nil {
		return err
	}
	return l.store.DeleteStockItem(ctx, id)
}

// Receive records stock coming in from a supplier.
func (l *Ledger) Receive(ctx context.Context, itemID string, qty decimal.Decimal, supplierName, notes string) (*Movement, error) {
	movements, err := l.ReceiveMany(ctx, []Line{{ItemID: itemID, Quantity: qty}}, supplierName, notes)
	if err != nil {
		return nil, err
	}
	return &movements[0], nil
}

// Allocate records stock going out to an employee. Fails with
// InsufficientStockError if qty exceeds the quantity on hand.
func (l *Ledger) Allocate(ctx context.Context, itemID string, qty decimal.Decimal, employeeName, notes string) (*Movement, error) {
	movements, err := l.AllocateMany(ctx, []Line{{ItemID: itemID, Quantity: qty}}, employeeName, notes)
	if err != nil {
		return nil, err
	}
	return &movements[0], nil
}

// AllocateMany applies one ALLOCATED movement per line, all tagged with the
// same employee and notes. Every line is validated against current stock
// before anything is written; any failure aborts the whole batch.
func (l *Ledger) AllocateMany(ctx context.Context, lines []Line, employeeName, notes string) ([]Movement, error) {
	if strings.TrimSpace(employeeName) == "" {
		return nil, ledger.ErrMissingField
	}
	movements, err := l.buildBatch(ctx, lines, MovementAllocated, employeeName, notes)
	if err != nil {
		return nil, err
	}
	if err := l.store.ApplyMovements(ctx, movements); err != nil {
		return nil, err
	}
	return movements, nil
}

// ReceiveMany applies one RECEIVED movement per line. Receiving has no upper
// bound; only positivity and item existence are checked.
func (l *Ledger) ReceiveMany(ctx context.Context, lines []Line, supplierName, notes string) ([]Movement, error) {
	if strings.TrimSpace(supplierName) == "" {
		return nil, ledger.ErrMissingField
	}
	movements, err := l.buildBatch(ctx, lines, MovementReceived, supplierName, notes)
	if err != nil {
		return nil, err
	}
	if err := l.store.ApplyMovements(ctx, movements); err != nil {
		return nil, err
	}
	return movements, nil
}

// buildBatch validates all lines and materializes the movements without
// writing anything. Single user, so check-then-act is safe here.
func (l *Ledger) buildBatch(ctx context.Context, lines []Line, mt MovementType, tag, notes string) ([]Movement, error) {
	if len(lines) == 0 {
		return nil, ledger.ErrMissingField
	}

	// A batch may repeat an item, so allocations are checked against the
	// running total requested for that item, not line by line.
	requested := make(map[string]decimal.Decimal, len(lines))
	movements := make([]Movement, 0, len(lines))
	for _, line := range lines {
		if !line.Quantity.IsPositive() {
			return nil, ledger.ErrInvalidQuantity
		}
		item, err := l.Item(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		if mt == MovementAllocated {
			total := requested[item.ID].Add(line.Quantity)
			if total.GreaterThan(item.OnHand) {
				return nil, &ledger.InsufficientStockError{
					ItemID:    item.ID,
					ItemName:  item.Name,
					OnHand:    item.OnHand,
					Requested: total,
				}
			}
			requested[item.ID] = total
		}

		m := Movement{
			ID:        uuid.NewString(),
			ItemID:    item.ID,
			ItemName:  item.Name,
			Type:      mt,
			Quantity:  line.Quantity,
			Notes:     notes,
			CreatedAt: l.now(),
		}
		if mt == MovementAllocated {
			m.EmployeeName = tag
		} else {
			m.SupplierName = tag
		}
		movements = append(movements, m)
	}
	return movements, nil
}

// Movements returns the movement log, optionally filtered by inclusive date
// range and type, newest-first unless the filter says otherwise.
func (l *Ledger) Movements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	return l.store.StockMovements(ctx, filter)
}

// Recomputed folds an item's full movement history. Equal to the stored
// OnHand whenever the projection is healthy.
func (l *Ledger) Recomputed(ctx context.Context, itemID string) (decimal.Decimal, error) {
	movements, err := l.store.StockMovements(ctx, MovementFilter{ItemID: itemID})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Signed())
	}
	return total, nil
}
