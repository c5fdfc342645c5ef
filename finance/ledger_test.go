package finance_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aone/bakery-ledger/finance"
	"github.com/aone/bakery-ledger/ledger"
	"github.com/aone/bakery-ledger/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestFinanceLedger(t *testing.T) *finance.Ledger {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return finance.NewLedger(store)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// MONEY ON HAND TESTS
// =============================================================================

func TestFinanceLedger_MoneyOnHand(t *testing.T) {
	// GIVEN: Income of 100 notes + 20 coins and an expense of 30
	// WHEN: Reading money on hand
	// THEN: 100 + 20 - 30 = 90

	l := newTestFinanceLedger(t)
	ctx := context.Background()

	_, err := l.RecordIncome(ctx, dec("100"), dec("20"), nil, "day's takings")
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, dec("30"), nil, "diesel")
	require.NoError(t, err)

	onHand, err := l.MoneyOnHand(ctx)
	require.NoError(t, err)
	assert.True(t, onHand.Equal(dec("90")), "money on hand = %s", onHand)

	income, err := l.TotalIncome(ctx)
	require.NoError(t, err)
	assert.True(t, income.Equal(dec("120")))

	expenses, err := l.TotalExpenses(ctx)
	require.NoError(t, err)
	assert.True(t, expenses.Equal(dec("30")))
}

func TestFinanceLedger_MoneyOnHandCanGoNegative(t *testing.T) {
	l := newTestFinanceLedger(t)
	ctx := context.Background()

	_, err := l.RecordIncome(ctx, dec("50"), decimal.Zero, nil, "")
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, dec("80"), nil, "oven repair")
	require.NoError(t, err)

	onHand, err := l.MoneyOnHand(ctx)
	require.NoError(t, err)
	assert.True(t, onHand.Equal(dec("-30")))
}

func TestFinanceLedger_DeleteRows_TotalsDrop(t *testing.T) {
	l := newTestFinanceLedger(t)
	ctx := context.Background()

	in, err := l.RecordIncome(ctx, dec("100"), decimal.Zero, nil, "")
	require.NoError(t, err)
	ex, err := l.RecordExpense(ctx, dec("40"), nil, "flour top-up")
	require.NoError(t, err)

	require.NoError(t, l.DeleteIncome(ctx, in.ID))
	require.NoError(t, l.DeleteExpense(ctx, ex.ID))

	onHand, err := l.MoneyOnHand(ctx)
	require.NoError(t, err)
	assert.True(t, onHand.IsZero())

	assert.ErrorIs(t, l.DeleteIncome(ctx, in.ID), ledger.ErrNotFound)
	assert.ErrorIs(t, l.DeleteExpense(ctx, ex.ID), ledger.ErrNotFound)
}

// =============================================================================
// CASH BREAKDOWN TESTS
// =============================================================================

func TestFinanceLedger_BreakdownSumEqualsMoneyOnHand(t *testing.T) {
	// GIVEN: A mix of split and unsplit income and expenses
	// WHEN: Reading the cash breakdown
	// THEN: The bucket sum equals money on hand exactly

	l := newTestFinanceLedger(t)
	ctx := context.Background()

	_, err := l.RecordIncome(ctx, dec("1450"), dec("230"),
		&finance.CoinSplit{R5: dec("120"), R2: dec("60"), R1: dec("35"), C50: dec("15")}, "")
	require.NoError(t, err)
	// Unsplit coins stay in the notes bucket rather than vanishing
	_, err = l.RecordIncome(ctx, dec("200"), dec("50"), nil, "")
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, dec("80"),
		&finance.CoinSplit{R5: dec("20"), R2: dec("10")}, "paid in coins partly")
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, dec("180"), nil, "diesel")
	require.NoError(t, err)

	b, err := l.CashBreakdown(ctx)
	require.NoError(t, err)
	onHand, err := l.MoneyOnHand(ctx)
	require.NoError(t, err)

	assert.True(t, b.Sum().Equal(onHand), "breakdown sum %s != money on hand %s", b.Sum(), onHand)
	assert.True(t, b.R5.Equal(dec("100")), "r5 = %s", b.R5)
	assert.True(t, b.R2.Equal(dec("50")), "r2 = %s", b.R2)
	assert.True(t, b.R1.Equal(dec("35")))
	assert.True(t, b.C50.Equal(dec("15")))
}

func TestFinanceLedger_EmptyLedger_ZeroBreakdown(t *testing.T) {
	l := newTestFinanceLedger(t)
	ctx := context.Background()

	b, err := l.CashBreakdown(ctx)
	require.NoError(t, err)
	assert.True(t, b.Sum().IsZero())
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestFinanceLedger_IncomeValidation(t *testing.T) {
	l := newTestFinanceLedger(t)
	ctx := context.Background()

	_, err := l.RecordIncome(ctx, decimal.Zero, decimal.Zero, nil, "")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount, "zero total")

	_, err = l.RecordIncome(ctx, dec("-10"), dec("20"), nil, "")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount, "negative notes")

	// A split must account for the coin amount exactly
	_, err = l.RecordIncome(ctx, dec("100"), dec("20"),
		&finance.CoinSplit{R5: dec("15")}, "")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount, "split != coins")

	_, err = l.RecordIncome(ctx, dec("100"), dec("20"),
		&finance.CoinSplit{R5: dec("25"), R2: dec("-5")}, "")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount, "negative denomination")

	// Coins-only income is fine
	_, err = l.RecordIncome(ctx, decimal.Zero, dec("20"),
		&finance.CoinSplit{R5: dec("20")}, "")
	assert.NoError(t, err)
}

func TestFinanceLedger_ExpenseValidation(t *testing.T) {
	l := newTestFinanceLedger(t)
	ctx := context.Background()

	_, err := l.RecordExpense(ctx, decimal.Zero, nil, "desc")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = l.RecordExpense(ctx, dec("50"), nil, "  ")
	assert.ErrorIs(t, err, ledger.ErrMissingField, "description required")

	// A split may cover at most the expense amount
	_, err = l.RecordExpense(ctx, dec("50"),
		&finance.CoinSplit{R5: dec("60")}, "too much in coins")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = l.RecordExpense(ctx, dec("50"),
		&finance.CoinSplit{R5: dec("30")}, "partly coins")
	assert.NoError(t, err)
}
