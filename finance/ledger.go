/*
Package finance implements the income/expense ledger and cash breakdown.

PURPOSE:
  Income and expense rows form two independent logs. Money on hand is the
  difference of their sums. The cash breakdown splits money on hand into
  denomination buckets: notes plus four coin denominations (R5, R2, R1, 50c).

BUCKET MATH:
  Each coin bucket is a net fold: coin income in that denomination minus coin
  expenses in that denomination. The notes bucket is defined as money on hand
  minus the four coin buckets, so the bucket sum equals money on hand for
  every sequence of records. Coin amounts never split into denominations stay
  in the notes bucket rather than disappearing.

SEE ALSO:
  - store/sqlite/finance.go: Persistence
*/
package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aone/bakery-ledger/ledger"
)

// =============================================================================
// TYPES
// =============================================================================

// CoinSplit details a coin amount by denomination (rand values, not counts).
type CoinSplit struct {
	R5  decimal.Decimal
	R2  decimal.Decimal
	R1  decimal.Decimal
	C50 decimal.Decimal
}

func (s CoinSplit) Sum() decimal.Decimal {
	return s.R5.Add(s.R2).Add(s.R1).Add(s.C50)
}

func (s CoinSplit) negative() bool {
	return s.R5.IsNegative() || s.R2.IsNegative() || s.R1.IsNegative() || s.C50.IsNegative()
}

// Income is one day's takings: notes plus coins, with an optional
// denomination split of the coin amount. Immutable except for delete.
type Income struct {
	ID          string
	Notes       decimal.Decimal // cash notes amount
	Coins       decimal.Decimal // total coin amount
	Split       CoinSplit       // zero when the coins were not detailed
	Total       decimal.Decimal // Notes + Coins
	Description string
	CreatedAt   time.Time
}

func (i Income) OccurredAt() time.Time        { return i.CreatedAt }
func (i Income) AmountValue() decimal.Decimal { return i.Total }

// Expense is one outgoing payment, with an optional coin split for the part
// paid in coins. Immutable except for delete.
type Expense struct {
	ID          string
	Amount      decimal.Decimal
	Split       CoinSplit
	Description string
	CreatedAt   time.Time
}

func (e Expense) OccurredAt() time.Time        { return e.CreatedAt }
func (e Expense) AmountValue() decimal.Decimal { return e.Amount }

// Breakdown is cash on hand by denomination bucket.
// Sum() always equals money on hand.
type Breakdown struct {
	Notes decimal.Decimal
	R5    decimal.Decimal
	R2    decimal.Decimal
	R1    decimal.Decimal
	C50   decimal.Decimal
}

func (b Breakdown) Sum() decimal.Decimal {
	return b.Notes.Add(b.R5).Add(b.R2).Add(b.R1).Add(b.C50)
}

// =============================================================================
// STORE
// =============================================================================

type Store interface {
	InsertIncome(ctx context.Context, in Income) error
	DeleteIncome(ctx context.Context, id string) error
	ListIncome(ctx context.Context) ([]Income, error)

	InsertExpense(ctx context.Context, ex Expense) error
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context) ([]Expense, error)
}

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: ledger.Now}
}

// RecordIncome appends an income row. The total must be positive, neither
// part may be negative, and a provided split must sum to the coin amount.
func (l *Ledger) RecordIncome(ctx context.Context, notes, coins decimal.Decimal, split *CoinSplit, description string) (*Income, error) {
	if notes.IsNegative() || coins.IsNegative() {
		return nil, ledger.ErrInvalidAmount
	}
	total := notes.Add(coins)
	if !total.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}

	in := Income{
		ID:          uuid.NewString(),
		Notes:       notes,
		Coins:       coins,
		Total:       total,
		Description: strings.TrimSpace(description),
		CreatedAt:   l.now(),
	}
	if split != nil {
		if split.negative() || !split.Sum().Equal(coins) {
			return nil, ledger.ErrInvalidAmount
		}
		in.Split = *split
	}
	if err := l.store.InsertIncome(ctx, in); err != nil {
		return nil, err
	}
	return &in, nil
}

// RecordExpense appends an expense row. A coin split is optional and may
// cover at most the expense amount; the rest is treated as paid in notes.
func (l *Ledger) RecordExpense(ctx context.Context, amount decimal.Decimal, split *CoinSplit, description string) (*Expense, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	if strings.TrimSpace(description) == "" {
		return nil, ledger.ErrMissingField
	}

	ex := Expense{
		ID:          uuid.NewString(),
		Amount:      amount,
		Description: strings.TrimSpace(description),
		CreatedAt:   l.now(),
	}
	if split != nil {
		if split.negative() || split.Sum().GreaterThan(amount) {
			return nil, ledger.ErrInvalidAmount
		}
		ex.Split = *split
	}
	if err := l.store.InsertExpense(ctx, ex); err != nil {
		return nil, err
	}
	return &ex, nil
}

func (l *Ledger) DeleteIncome(ctx context.Context, id string) error {
	return l.store.DeleteIncome(ctx, id)
}

func (l *Ledger) DeleteExpense(ctx context.Context, id string) error {
	return l.store.DeleteExpense(ctx, id)
}

func (l *Ledger) Income(ctx context.Context) ([]Income, error)    { return l.store.ListIncome(ctx) }
func (l *Ledger) Expenses(ctx context.Context) ([]Expense, error) { return l.store.ListExpenses(ctx) }

// TotalIncome folds all income rows.
func (l *Ledger) TotalIncome(ctx context.Context) (decimal.Decimal, error) {
	rows, err := l.store.ListIncome(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Total)
	}
	return total, nil
}

// TotalExpenses folds all expense rows.
func (l *Ledger) TotalExpenses(ctx context.Context) (decimal.Decimal, error) {
	rows, err := l.store.ListExpenses(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total, nil
}

// MoneyOnHand is total income minus total expenses.
func (l *Ledger) MoneyOnHand(ctx context.Context) (decimal.Decimal, error) {
	income, err := l.TotalIncome(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := l.TotalExpenses(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expenses), nil
}

// CashBreakdown nets each coin bucket and assigns the remainder of money on
// hand to notes. The bucket sum equals MoneyOnHand by construction.
func (l *Ledger) CashBreakdown(ctx context.Context) (Breakdown, error) {
	income, err := l.store.ListIncome(ctx)
	if err != nil {
		return Breakdown{}, err
	}
	expenses, err := l.store.ListExpenses(ctx)
	if err != nil {
		return Breakdown{}, err
	}

	var b Breakdown
	onHand := decimal.Zero
	for _, r := range income {
		onHand = onHand.Add(r.Total)
		b.R5 = b.R5.Add(r.Split.R5)
		b.R2 = b.R2.Add(r.Split.R2)
		b.R1 = b.R1.Add(r.Split.R1)
		b.C50 = b.C50.Add(r.Split.C50)
	}
	for _, r := range expenses {
		onHand = onHand.Sub(r.Amount)
		b.R5 = b.R5.Sub(r.Split.R5)
		b.R2 = b.R2.Sub(r.Split.R2)
		b.R1 = b.R1.Sub(r.Split.R1)
		b.C50 = b.C50.Sub(r.Split.C50)
	}
	b.Notes = onHand.Sub(b.R5).Sub(b.R2).Sub(b.R1).Sub(b.C50)
	return b, nil
}
