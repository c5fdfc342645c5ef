/*
errors.go - Centralized error types for all ledgers

PURPOSE:
  One error taxonomy shared by every ledger. Domain packages return these
  sentinels (or structured errors that unwrap to them) so callers can classify
  failures with errors.Is without knowing which ledger produced them.

ERROR CATEGORIES:
  1. Validation errors - rejected before any write (bad amount, missing field)
  2. Stock errors      - allocation exceeding quantity on hand
  3. Lookup errors     - references to deleted or unknown rows
  4. Storage errors    - persistence failures, propagated without retry

SEE ALSO:
  - stock/ledger.go: Returns InsufficientStockError
  - api/handlers.go: Maps these to HTTP status codes
*/
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidQuantity is returned for a zero or negative quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidAmount is returned for a zero or negative money amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrMissingField is returned when a required field (reason, description,
	// employee or supplier selection, item type) is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInsufficientStock is returned when an allocation exceeds the
	// quantity on hand. Batch allocations abort with zero writes.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotFound is returned for operations referencing a deleted or
	// nonexistent row.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps persistence failures. No automatic retry.
	ErrStorage = errors.New("storage failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientStockError reports which item fell short and by how much.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	OnHand    decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: on hand %s, requested %s",
		e.ItemName, e.OnHand, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StorageError wraps a database-level failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage failure: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrStorage) match without losing the cause chain.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Storage wraps err as a StorageError, or returns nil if err is nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid operator input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrMissingField)
}

// IsNotFound returns true if the error indicates a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
