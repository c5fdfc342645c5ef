package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aone/bakery-ledger/ledger"
	"github.com/aone/bakery-ledger/stock"
	"github.com/aone/bakery-ledger/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStockLedger(t *testing.T) (*stock.Ledger, *sqlite.Store) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return stock.NewLedger(store), store
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// FOLD INVARIANT TESTS
// =============================================================================

func TestStockLedger_OnHandEqualsFold(t *testing.T) {
	// GIVEN: An item receiving and allocating over several movements
	// WHEN: Comparing the stored on-hand against a fold of the full log
	// THEN: They are always equal

	l, _ := newTestStockLedger(t)
	ctx := context.Background()

	item, err := l.CreateItem(ctx, "White Bread", "loaves")
	require.NoError(t, err)

	_, err = l.Receive(ctx, item.ID, dec("300"), "Golden Flour Mills", "")
	require.NoError(t, err)
	_, err = l.Allocate(ctx, item.ID, dec("120"), "Sipho", "")
	require.NoError(t, err)
	_, err = l.Receive(ctx, item.ID, dec("50"), "Golden Flour Mills", "")
	require.NoError(t, err)
	_, err = l.Allocate(ctx, item.ID, dec("30.5"), "Thandi", "")
	require.NoError(t, err)

	got, err := l.Item(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.OnHand.Equal(dec("199.5")), "on hand = %s", got.OnHand)

	folded, err := l.Recomputed(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, folded.Equal(got.OnHand), "fold %s != projection %s", folded, got.OnHand)
}

func TestStockLedger_NewItemStartsAtZero(t *testing.T) {
	l, _ := newTestStockLedger(t)
	ctx := context.Background()

	item, err := l.CreateItem(ctx, "Rolls", "rolls")
	require.NoError(t, err)
	assert.True(t, item.OnHand.IsZero())
}

// =============================================================================
// INSUFFICIENT STOCK TESTS
// =============================================================================

func TestStockLedger_AllocateExceedingOnHand_Rejected(t *testing.T) {
	// GIVEN: An item with 10 on hand
	// WHEN: Allocating 11
	// THEN: InsufficientStockError, and nothing is written

	l, _ := newTestStockLedger(t)
	ctx := context.Background()

	item, err := l.CreateItem(ctx, "Brown Bread", "loaves")
	require.NoError(t, err)
	_, err = l.Receive(ctx, item.ID, dec("10"), "Mills", "")
	require.NoError(t, err)

	_, err = l.Allocate(ctx, item.ID, dec("11"), "Sipho", "")
	require.Error(t, err)

	var insufficient *ledger.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, item.ID, insufficient.ItemID)
	assert.True(t, insufficient.OnHand.Equal(dec("10")))
	assert.True(t, insufficient.Requested.Equal(dec("11")))
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	// On hand unchanged, and only the RECEIVED movement in the log
	got, err := l.Item(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.OnHand.Equal(dec("10")))

	movements, err := l.Movements(ctx, stock.MovementFilter{ItemID: item.ID})
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestStockLedger_AllocateExactOnHand_Allowed(t *testing.T) {
	// Allocating exactly the quantity on hand drains the item to zero.

	l, _ := newTestStockLedger(t)
	ctx := context.Background()

	item, err := l.CreateItem(ctx, "Rolls", "rolls")
	require.NoError(t, err)
	_, err = l.Receive(ctx, item.ID, dec("150"), "Mills", "")
	require.NoError(t, err)

	_, err = l.Allocate(ctx, item.ID, dec("150"), "Sipho", "")
	require.NoError(t, err)

	got, err := l.Item(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.OnHand.IsZero())
}

// =============================================================================
// BATCH (ALL-OR-NOTHING) TESTS
// =============================================================================

func TestStockLedger_BatchWithBadLine_WritesNothing(t *testing.T) {
	// GIVEN: Three lines where the second exceeds its item's stock
	// WHEN: Allocating the batch
	// THEN: The whole batch fails and no item's on-hand changes

	l, _ := newTestStockLedger(t)
	ctx := context.Background()

	white, err := l.CreateItem(ctx, "White Bread", "loaves")
	require.NoError(t, err)
	brown, err := l.CreateItem(ctx, "Brown Bread", "loaves")
	require.NoError(t, err)
	rolls, err := l.CreateItem(ctx, "Rolls", "rolls")
	require.NoError(t, err)

	for _, it := range []*stock.Item{white, brown, rolls} {
		_, err := l.Receive(ctx, it.ID, dec("100"), "Mills", "")
		require.NoError(t, err)
	}

	_, err = l.AllocateMany(ctx, []stock.Line{
		{ItemID: white.ID, Quantity: dec("50")},
		{ItemID: brown.ID, Quantity: dec("101")}, // over
		{ItemID: rolls.ID, Quantity: dec("50")},
	}, "Sipho", "route 1")
	require.ErrorIs(t, err, ledger.ErrInsufficientStock)

	for _, it := range []*stock.Item{white, brown, rolls} {
		got, err := l.Item(ctx, it.ID)
		require.NoError(t, err)
		assert.True(t, got.OnHand.Equal(dec("100")), "%s changed to %s", got.Name, got.OnHand)
	}
}

func TestStockLedger_BatchAllValid_AppliesEveryLine(t *testing.T) {
	l, _ := newTestStockLedger(t)
	ctx := context.Background()

	white, err := l.CreateItem(ctx, "White Bread", "loaves")
	require.NoError(t, err)
	brown, err := l.CreateItem(ctx, "Brown Bread", "loaves")
	require.NoError(t, err)

	_, err = l.ReceiveMany(ctx, []stock.Line{
		{ItemID: white.ID, Quantity: dec("300")},
		{ItemID: brown.ID, Quantity: dec("240")},
	}, "Mills", "morning delivery")
	require.NoError(t, err)

	movements, err := l.AllocateMany(ctx, []stock.Line{
		{ItemID: white.ID, Quantity: dec("120")},
		{ItemID: brown.ID, Quantity: dec("60")},
	}, "Sipho", "route 1")
	require.NoError(t, err)
	require.Len(t, movements, 2)

	// All movements carry the batch tag
	for _, m := range movements {
		assert.Equal(t, "Sipho", m.EmployeeName)
		assert.Equal(t, "route 1", m.Notes)
	}

	gotWhite, err := l.Item(ctx, white.ID)
	require.NoError(t, err)
	assert.True(t, gotWhite.OnHand.Equal(dec("180")))
	gotBrown, err := l.Item(ctx, brown.ID)
	require.NoError(t, err)
	assert.True(t, gotBrown.OnHand.Equal(dec("180")))
}

func TestStockLedger_BatchRepeatingAnItem_CheckedAgainstRunningTotal(t *testing.T) {
	// GIVEN: An item with 5 on hand
	// WHEN: One batch allocates 3 and then 3 more of the same item
	// THEN: The combined 6 exceeds stock, so the batch fails with zero writes

	l, _ := newTestStockLedger(t)
	ctx := context.Background()

	item, err := l.CreateItem(ctx, "Rolls", "rolls")
	require.NoError(t, err)
	_, err = l.Receive(ctx, item.ID, dec("5"), "Mills", "")
	require.NoError(t, err)

	_, err = l.AllocateMany(ctx, []stock.Line{
		{ItemID: item.ID, Quantity: dec("3")},
		{ItemID: item.ID, Quantity: dec("3")},
	}, "Sipho", "")
	require.Error(t, err)

	var insufficient *ledger.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Requested.Equal(dec("6")), "requested = %s", insufficient.Requested)
	assert.True(t, insufficient.OnHand.Equal(dec("5")))

	got, err := l.Item(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.OnHand.Equal(dec("5")), "on hand = %s", got.OnHand)

	movements, err := l.Movements(ctx, stock.MovementFilter{ItemID: item.ID})
	require.NoError(t, err)
	assert.Len(t, movements, 1, "only the RECEIVED movement remains")

	// Repeated lines that fit within stock still apply
	_, err = l.AllocateMany(ctx, []stock.Line{
		{ItemID: item.ID, Quantity: dec("3")},
		{ItemID: item.ID, Quantity: dec("2")},
	}, "Sipho", "")
	require.NoError(t, err)

	got, err = l.Item(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.OnHand.IsZero())
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestStockLedger_ZeroOrNegativeQuantity_Rejected(t *testing.T) {
	l, _ := newTestStockLedger(t)
	ctx := context.Background()

	item, err := l.CreateItem(ctx, "White Bread", "loaves")
	require.NoError(t, err)

	_, err = l.Receive(ctx, item.ID, decimal.Zero, "Mills", "")
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

	_, err = l.Allocate(ctx, item.ID, dec("-5"), "Sipho", "")
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}

func TestStockLedger_MissingTagOrName_Rejected(t *testing.T) {
	l, _ := newTestStockLedger(t)
	ctx := context.Background()

	item, err := l.CreateItem(ctx, "White Bread", "loaves")
	require.NoError(t, err)

	_, err = l.Receive(ctx, item.ID, dec("10"), "  ", "")
	assert.ErrorIs(t, err, ledger.ErrMissingField, "blank supplier name")

	_, err = l.Allocate(ctx, item.ID, dec("10"), "", "")
	assert.ErrorIs(t, err, ledger.ErrMissingField, "blank employee name")

	_, err = l.CreateItem(ctx, "   ", "loaves")
	assert.ErrorIs(t, err, ledger.ErrMissingField, "blank item name")
}

func TestStockLedger_UnknownItem_NotFound(t *testing.T) {
	l, _ := newTestStockLedger(t)
	ctx := context.Background()

	_, err := l.Receive(ctx, "no-such-item", dec("10"), "Mills", "")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = l.Item(ctx, "no-such-item")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

// =============================================================================
// DELETION CONTRACT TESTS
// =============================================================================

func TestStockLedger_DeleteItem_RetainsMovements(t *testing.T) {
	// GIVEN: An item with movement history
	// WHEN: The item is deleted
	// THEN: The item is gone but its movements stay, carrying the name snapshot

	l, _ := newTestStockLedger(t)
	ctx := context.Background()

	item, err := l.CreateItem(ctx, "Bucket Biscuits", "biscuits")
	require.NoError(t, err)
	_, err = l.Receive(ctx, item.ID, dec("40"), "Mills", "")
	require.NoError(t, err)

	require.NoError(t, l.DeleteItem(ctx, item.ID))

	_, err = l.Item(ctx, item.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	movements, err := l.Movements(ctx, stock.MovementFilter{ItemID: item.ID})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, "Bucket Biscuits", movements[0].ItemName)
}

// =============================================================================
// MOVEMENT FILTER TESTS
// =============================================================================

func TestStockLedger_MovementFilters(t *testing.T) {
	l, _ := newTestStockLedger(t)
	ctx := context.Background()

	item, err := l.CreateItem(ctx, "White Bread", "loaves")
	require.NoError(t, err)
	_, err = l.Receive(ctx, item.ID, dec("100"), "Mills", "")
	require.NoError(t, err)
	_, err = l.Allocate(ctx, item.ID, dec("40"), "Sipho", "")
	require.NoError(t, err)

	received := stock.MovementReceived
	movements, err := l.Movements(ctx, stock.MovementFilter{Type: &received})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, stock.MovementReceived, movements[0].Type)

	// Inclusive date boundaries: today's movements match a [today, today] window
	today := time.Now()
	movements, err = l.Movements(ctx, stock.MovementFilter{From: &today, To: &today})
	require.NoError(t, err)
	assert.Len(t, movements, 2)

	// A window ending yesterday excludes them
	yesterday := today.AddDate(0, 0, -1)
	movements, err = l.Movements(ctx, stock.MovementFilter{To: &yesterday})
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestMovement_Signed(t *testing.T) {
	in := stock.Movement{Type: stock.MovementReceived, Quantity: dec("10")}
	out := stock.Movement{Type: stock.MovementAllocated, Quantity: dec("10")}

	assert.True(t, in.Signed().Equal(dec("10")))
	assert.True(t, out.Signed().Equal(dec("-10")))
}
