package credit_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aone/bakery-ledger/credit"
	"github.com/aone/bakery-ledger/ledger"
	"github.com/aone/bakery-ledger/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestCreditLedger(t *testing.T) *credit.Ledger {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return credit.NewLedger(store)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// BALANCE FOLD TESTS
// =============================================================================

func TestCreditLedger_BalanceIsFoldOfTransactions(t *testing.T) {
	// GIVEN: An employee who borrowed twice and repaid once
	// WHEN: Reading the balance
	// THEN: balance = borrows - repayments

	l := newTestCreditLedger(t)
	ctx := context.Background()

	emp, err := l.CreateEmployee(ctx, "Sipho", "083 555 0101", nil, "")
	require.NoError(t, err)

	_, err = l.Record(ctx, emp.ID, credit.TxBorrow, dec("300"), "school fees")
	require.NoError(t, err)
	_, err = l.Record(ctx, emp.ID, credit.TxBorrow, dec("150"), "transport")
	require.NoError(t, err)
	_, err = l.Record(ctx, emp.ID, credit.TxRepay, dec("200"), "week 1 deduction")
	require.NoError(t, err)

	balance, err := l.Balance(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("250")), "balance = %s", balance)
}

func TestCreditLedger_OverpaymentGoesNegative(t *testing.T) {
	// Repaying more than borrowed is allowed; the balance simply goes negative.

	l := newTestCreditLedger(t)
	ctx := context.Background()

	emp, err := l.CreateEmployee(ctx, "Thandi", "", nil, "")
	require.NoError(t, err)

	_, err = l.Record(ctx, emp.ID, credit.TxBorrow, dec("100"), "groceries")
	require.NoError(t, err)
	_, err = l.Record(ctx, emp.ID, credit.TxRepay, dec("120"), "paid back extra")
	require.NoError(t, err)

	balance, err := l.Balance(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("-20")))
}

func TestCreditLedger_NoTransactions_ZeroBalance(t *testing.T) {
	l := newTestCreditLedger(t)
	ctx := context.Background()

	emp, err := l.CreateEmployee(ctx, "Sipho", "", nil, "")
	require.NoError(t, err)

	balance, err := l.Balance(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

// =============================================================================
// EDIT AND DELETE TESTS
// =============================================================================

func TestCreditLedger_EditTransaction_BalanceReflectsChange(t *testing.T) {
	// GIVEN: A borrow of 300
	// WHEN: The row is edited down to 100
	// THEN: The next balance read folds the edited amount

	l := newTestCreditLedger(t)
	ctx := context.Background()

	emp, err := l.CreateEmployee(ctx, "Sipho", "", nil, "")
	require.NoError(t, err)
	tx, err := l.Record(ctx, emp.ID, credit.TxBorrow, dec("300"), "school fees")
	require.NoError(t, err)

	backdated := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	edited, err := l.Edit(ctx, tx.ID, dec("100"), "school fees (corrected)", backdated)
	require.NoError(t, err)
	assert.True(t, edited.Amount.Equal(dec("100")))
	assert.Equal(t, "school fees (corrected)", edited.Reason)
	assert.True(t, edited.CreatedAt.Equal(backdated))

	balance, err := l.Balance(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("100")))
}

func TestCreditLedger_EditKeepsDateWhenZero(t *testing.T) {
	l := newTestCreditLedger(t)
	ctx := context.Background()

	emp, err := l.CreateEmployee(ctx, "Sipho", "", nil, "")
	require.NoError(t, err)
	tx, err := l.Record(ctx, emp.ID, credit.TxBorrow, dec("50"), "airtime")
	require.NoError(t, err)

	edited, err := l.Edit(ctx, tx.ID, dec("60"), "airtime", time.Time{})
	require.NoError(t, err)
	assert.WithinDuration(t, tx.CreatedAt, edited.CreatedAt, time.Second)
}

func TestCreditLedger_DeleteTransaction_BalanceDrops(t *testing.T) {
	l := newTestCreditLedger(t)
	ctx := context.Background()

	emp, err := l.CreateEmployee(ctx, "Sipho", "", nil, "")
	require.NoError(t, err)
	tx, err := l.Record(ctx, emp.ID, credit.TxBorrow, dec("300"), "school fees")
	require.NoError(t, err)
	_, err = l.Record(ctx, emp.ID, credit.TxBorrow, dec("150"), "transport")
	require.NoError(t, err)

	require.NoError(t, l.Delete(ctx, tx.ID))

	balance, err := l.Balance(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("150")))

	// Deleting again reports not found
	assert.ErrorIs(t, l.Delete(ctx, tx.ID), ledger.ErrNotFound)
}

func TestCreditLedger_DeleteThenIdenticalReinsert_RestoresBalance(t *testing.T) {
	// GIVEN: An employee with a folded balance of 450
	// WHEN: One row is deleted and an identical row recorded again
	// THEN: The fold returns to exactly the prior balance

	l := newTestCreditLedger(t)
	ctx := context.Background()

	emp, err := l.CreateEmployee(ctx, "Sipho", "", nil, "")
	require.NoError(t, err)
	tx, err := l.Record(ctx, emp.ID, credit.TxBorrow, dec("300"), "school fees")
	require.NoError(t, err)
	_, err = l.Record(ctx, emp.ID, credit.TxBorrow, dec("150"), "transport")
	require.NoError(t, err)

	before, err := l.Balance(ctx, emp.ID)
	require.NoError(t, err)
	require.True(t, before.Equal(dec("450")))

	require.NoError(t, l.Delete(ctx, tx.ID))

	dropped, err := l.Balance(ctx, emp.ID)
	require.NoError(t, err)
	require.True(t, dropped.Equal(dec("150")))

	_, err = l.Record(ctx, emp.ID, credit.TxBorrow, tx.Amount, tx.Reason)
	require.NoError(t, err)

	after, err := l.Balance(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, after.Equal(before), "balance %s != %s", after, before)
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestCreditLedger_Validation(t *testing.T) {
	l := newTestCreditLedger(t)
	ctx := context.Background()

	emp, err := l.CreateEmployee(ctx, "Sipho", "", nil, "")
	require.NoError(t, err)

	_, err = l.Record(ctx, emp.ID, credit.TxBorrow, decimal.Zero, "reason")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = l.Record(ctx, emp.ID, credit.TxBorrow, dec("-5"), "reason")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = l.Record(ctx, emp.ID, credit.TxBorrow, dec("50"), "   ")
	assert.ErrorIs(t, err, ledger.ErrMissingField)

	_, err = l.Record(ctx, "no-such-employee", credit.TxBorrow, dec("50"), "reason")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = l.Edit(ctx, "no-such-tx", dec("50"), "reason", time.Time{})
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

// =============================================================================
// EMPLOYEE DIRECTORY TESTS
// =============================================================================

func TestCreditLedger_DeleteEmployee_RetainsHistory(t *testing.T) {
	// GIVEN: An employee with credit history
	// WHEN: The employee is deleted
	// THEN: Their transactions remain, carrying the name snapshot

	l := newTestCreditLedger(t)
	ctx := context.Background()

	emp, err := l.CreateEmployee(ctx, "Sipho", "", nil, "")
	require.NoError(t, err)
	_, err = l.Record(ctx, emp.ID, credit.TxBorrow, dec("300"), "school fees")
	require.NoError(t, err)

	require.NoError(t, l.DeleteEmployee(ctx, emp.ID))

	_, err = l.Employee(ctx, emp.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	txs, err := l.Transactions(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Sipho", txs[0].EmployeeName)
}

func TestCreditLedger_UpdateEmployee(t *testing.T) {
	l := newTestCreditLedger(t)
	ctx := context.Background()

	emp, err := l.CreateEmployee(ctx, "Sipho", "083 555 0101", nil, "")
	require.NoError(t, err)

	expiry := time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)
	emp.Phone = "083 555 0999"
	emp.LicenseExpiry = &expiry
	require.NoError(t, l.UpdateEmployee(ctx, *emp))

	got, err := l.Employee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "083 555 0999", got.Phone)
	require.NotNil(t, got.LicenseExpiry)
	assert.True(t, got.LicenseExpiry.Equal(expiry))
}

func TestTransaction_Signed(t *testing.T) {
	borrow := credit.Transaction{Type: credit.TxBorrow, Amount: dec("100")}
	repay := credit.Transaction{Type: credit.TxRepay, Amount: dec("100")}

	assert.True(t, borrow.Signed().Equal(dec("100")))
	assert.True(t, repay.Signed().Equal(dec("-100")))
}
