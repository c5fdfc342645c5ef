package supplier_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aone/bakery-ledger/ledger"
	"github.com/aone/bakery-ledger/store/sqlite"
	"github.com/aone/bakery-ledger/supplier"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestSupplierLedger(t *testing.T) *supplier.Ledger {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return supplier.NewLedger(store)
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

func TestSupplierLedger_BalanceIsInvoicedMinusPaid(t *testing.T) {
	// GIVEN: Two invoices and one partial payment
	// WHEN: Reading the supplier's balance
	// THEN: balance = invoiced - paid

	l := newTestSupplierLedger(t)
	ctx := context.Background()

	s, err := l.CreateSupplier(ctx, "Golden Flour Mills", "P. Naidoo", "031 555 0199")
	require.NoError(t, err)

	_, err = l.RecordInvoice(ctx, s.ID, "INV-1041", dec("3200"), time.Time{}, nil, "flour")
	require.NoError(t, err)
	_, err = l.RecordInvoice(ctx, s.ID, "INV-1058", dec("1400"), time.Time{}, nil, "")
	require.NoError(t, err)
	_, err = l.RecordPayment(ctx, s.ID, dec("2000"), "EFT", "EFT-2291", "", time.Time{})
	require.NoError(t, err)

	balance, err := l.Balance(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("2600")), "balance = %s", balance)
}

func TestSupplierLedger_OverpaymentGoesNegative(t *testing.T) {
	l := newTestSupplierLedger(t)
	ctx := context.Background()

	s, err := l.CreateSupplier(ctx, "Coastal Packaging", "", "")
	require.NoError(t, err)

	_, err = l.RecordInvoice(ctx, s.ID, "CP-889", dec("650"), time.Time{}, nil, "")
	require.NoError(t, err)
	_, err = l.RecordPayment(ctx, s.ID, dec("700"), "cash", "", "", time.Time{})
	require.NoError(t, err)

	balance, err := l.Balance(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("-50")))
}

// =============================================================================
// WHOLE-LEDGER TOTALS TESTS
// =============================================================================

func TestSupplierLedger_TotalsAcrossSuppliers(t *testing.T) {
	l := newTestSupplierLedger(t)
	ctx := context.Background()

	a, err := l.CreateSupplier(ctx, "Mills", "", "")
	require.NoError(t, err)
	b, err := l.CreateSupplier(ctx, "Packaging", "", "")
	require.NoError(t, err)

	_, err = l.RecordInvoice(ctx, a.ID, "A-1", dec("1000"), time.Time{}, nil, "")
	require.NoError(t, err)
	_, err = l.RecordInvoice(ctx, b.ID, "B-1", dec("500"), time.Time{}, nil, "")
	require.NoError(t, err)
	_, err = l.RecordPayment(ctx, a.ID, dec("400"), "EFT", "", "", time.Time{})
	require.NoError(t, err)

	totals, err := l.Totals(ctx)
	require.NoError(t, err)
	assert.True(t, totals.Invoiced.Equal(dec("1500")))
	assert.True(t, totals.Paid.Equal(dec("400")))
	assert.True(t, totals.Outstanding.Equal(dec("1100")))
}

// =============================================================================
// VALIDATION AND DELETION TESTS
// =============================================================================

func TestSupplierLedger_Validation(t *testing.T) {
	l := newTestSupplierLedger(t)
	ctx := context.Background()

	s, err := l.CreateSupplier(ctx, "Mills", "", "")
	require.NoError(t, err)

	_, err = l.RecordInvoice(ctx, s.ID, "INV-1", decimal.Zero, time.Time{}, nil, "")
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = l.RecordInvoice(ctx, s.ID, "  ", dec("100"), time.Time{}, nil, "")
	assert.ErrorIs(t, err, ledger.ErrMissingField, "invoice number required")

	_, err = l.RecordPayment(ctx, s.ID, dec("100"), "", "", "", time.Time{})
	assert.ErrorIs(t, err, ledger.ErrMissingField, "payment method required")

	_, err = l.RecordInvoice(ctx, "no-such-supplier", "INV-1", dec("100"), time.Time{}, nil, "")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = l.CreateSupplier(ctx, "   ", "", "")
	assert.ErrorIs(t, err, ledger.ErrMissingField)
}

func TestSupplierLedger_DeleteSupplier_RetainsHistory(t *testing.T) {
	// GIVEN: A supplier with an invoice
	// WHEN: The supplier is deleted
	// THEN: The invoice remains, carrying the name snapshot

	l := newTestSupplierLedger(t)
	ctx := context.Background()

	s, err := l.CreateSupplier(ctx, "Mills", "", "")
	require.NoError(t, err)
	_, err = l.RecordInvoice(ctx, s.ID, "INV-1", dec("100"), time.Time{}, nil, "")
	require.NoError(t, err)

	require.NoError(t, l.DeleteSupplier(ctx, s.ID))

	_, err = l.Supplier(ctx, s.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	invoices, err := l.Invoices(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "Mills", invoices[0].SupplierName)
}

func TestSupplierLedger_ZeroDateDefaultsToNow(t *testing.T) {
	l := newTestSupplierLedger(t)
	ctx := context.Background()

	s, err := l.CreateSupplier(ctx, "Mills", "", "")
	require.NoError(t, err)

	inv, err := l.RecordInvoice(ctx, s.ID, "INV-1", dec("100"), time.Time{}, nil, "")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), inv.InvoiceDate, time.Minute)

	p, err := l.RecordPayment(ctx, s.ID, dec("50"), "cash", "", "", time.Time{})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), p.PaymentDate, time.Minute)
}
