/*
Package ledger provides the core bookkeeping engine.

PURPOSE:
  This package contains domain-agnostic types and algorithms shared by every
  ledger in the system. Whether tracking loaves on hand, employee credit, cash
  income, or supplier balances, the same rules apply: every balance is a fold
  over a log of dated records, and every report is a date-window filter plus a
  sum.

KEY CONCEPTS IN THIS FILE (types.go):
  - Dated / Amounted: the minimal shape a record needs to be reportable
  - Decimal helpers: constructors so domain code never touches float math

DESIGN PRINCIPLES:
  1. Derived balances: no balance is a field mutated on its own; it is always
     recomputed from the log (or rebuilt transactionally alongside a log write)
  2. Precision: decimal.Decimal everywhere, never float64 arithmetic
  3. Reuse: the report aggregator works over any (Dated, Amounted) log with
     no per-ledger special-casing

SEE ALSO:
  - errors.go: Error taxonomy shared by all ledgers
  - period.go: Inclusive date windows for reporting
  - report.go: Generic date-range aggregation
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORD SHAPE - What a ledger row must expose to be reportable
// =============================================================================

// Dated is any record with a single significant timestamp.
type Dated interface {
	OccurredAt() time.Time
}

// Amounted is any record with a single summable numeric field.
// Stock movements expose quantity, financial rows expose money.
type Amounted interface {
	AmountValue() decimal.Decimal
}

// Record is what the report aggregator operates over.
type Record interface {
	Dated
	Amounted
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

func Dec(value float64) decimal.Decimal     { return decimal.NewFromFloat(value) }
func DecInt(value int64) decimal.Decimal    { return decimal.NewFromInt(value) }
func MustParseDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
