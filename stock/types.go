/*
Package stock implements the stock ledger and movement log.

PURPOSE:
  Tracks each stock item's quantity on hand and the append-only history of
  movements that produced it. The on-hand figure is a projection: it is
  updated in the same storage transaction as every movement write, and
  recomputing it from the log must always reproduce the same value.

CRITICAL INVARIANTS:
  1. FOLD: OnHand == sum(RECEIVED quantities) - sum(ALLOCATED quantities)
  2. APPEND-ONLY: movements are never edited or deleted
  3. NON-NEGATIVE: an allocation may never exceed the quantity on hand
  4. ALL-OR-NOTHING: multi-line batches validate every line before writing any

DELETION CONTRACT:
  Deleting a stock item removes the item row only. Its movements are retained
  under the denormalized item name, so history and reports keep displaying
  them after the item is gone.

SEE ALSO:
  - ledger.go: Operations and validation
  - store/sqlite: Persistence
*/
package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MOVEMENT - One signed change to an item's quantity on hand
// =============================================================================

type MovementType string

const (
	MovementReceived  MovementType = "RECEIVED"  // stock in, from a supplier
	MovementAllocated MovementType = "ALLOCATED" // stock out, to an employee
)

// Movement is an immutable row in the stock movement log. Quantity is always
// positive; the sign comes from the movement type.
type Movement struct {
	ID           string
	ItemID       string
	ItemName     string // snapshot, survives item rename/delete
	Type         MovementType
	Quantity     decimal.Decimal
	EmployeeName string // set on ALLOCATED
	SupplierName string // set on RECEIVED
	Notes        string
	CreatedAt    time.Time
}

// Signed returns the quantity with the sign implied by the movement type.
func (m Movement) Signed() decimal.Decimal {
	if m.Type == MovementAllocated {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

func (m Movement) OccurredAt() time.Time          { return m.CreatedAt }
func (m Movement) AmountValue() decimal.Decimal   { return m.Quantity }

// =============================================================================
// ITEM - Stock item with its projected quantity on hand
// =============================================================================

type Item struct {
	ID        string
	Name      string
	Unit      string // display label, e.g. "loaves", "kg"
	OnHand    decimal.Decimal
	CreatedAt time.Time
}

// =============================================================================
// BATCH LINES AND QUERY FILTERS
// =============================================================================

// Line is one row of a multi-item allocation or receiving batch.
type Line struct {
	ItemID   string
	Quantity decimal.Decimal
}

// MovementFilter narrows movement queries. Nil fields mean "no filter".
// Results are newest-first unless OldestFirst is set.
type MovementFilter struct {
	From        *time.Time // inclusive
	To          *time.Time // inclusive
	Type        *MovementType
	ItemID      string
	OldestFirst bool
}
