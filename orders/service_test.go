package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aone/bakery-ledger/ledger"
	"github.com/aone/bakery-ledger/orders"
	"github.com/aone/bakery-ledger/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestOrderService(t *testing.T) *orders.Service {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return orders.NewService(store)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// QUANTITY RULE TESTS
// =============================================================================

func TestQuantity_RuleTable(t *testing.T) {
	cases := []struct {
		itemType orders.ItemType
		input    string
		want     string
	}{
		{orders.WhiteBread, "1", "60"},
		{orders.WhiteBread, "2", "120"},
		{orders.BrownBread, "1", "60"},
		{orders.BrownBread, "3", "180"},
		{orders.Rolls, "1", "150"},
		{orders.Rolls, "2", "300"},
		{orders.BucketBiscuits, "1", "40"},
		{orders.BucketBiscuits, "5", "200"},
		{orders.LooseItems, "17", "17"},
		{orders.LooseItems, "1", "1"},
		// Half-trolley entries scale linearly
		{orders.WhiteBread, "0.5", "30"},
	}
	for _, tc := range cases {
		got, err := orders.Quantity(tc.itemType, dec(tc.input))
		require.NoError(t, err, "%s x %s", tc.itemType, tc.input)
		assert.True(t, got.Equal(dec(tc.want)),
			"%s x %s = %s, want %s", tc.itemType, tc.input, got, tc.want)
	}
}

func TestQuantity_Invalid(t *testing.T) {
	_, err := orders.Quantity(orders.WhiteBread, decimal.Zero)
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

	_, err = orders.Quantity(orders.WhiteBread, dec("-1"))
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

	_, err = orders.Quantity(orders.ItemType("Croissants"), dec("1"))
	assert.ErrorIs(t, err, ledger.ErrMissingField, "unknown item type")
}

func TestItemTypes_CoversRuleTable(t *testing.T) {
	types := orders.ItemTypes()
	assert.Len(t, types, 5)
	assert.Contains(t, types, orders.LooseItems)
}

// =============================================================================
// ORDER TOTAL TESTS
// =============================================================================

func TestOrderService_TotalIsSumOfLineQuantities(t *testing.T) {
	// GIVEN: An order with 2 trollies white, 1 trolley rolls, 17 loose
	// WHEN: Creating the order
	// THEN: total = 120 + 150 + 17 = 287, and the stored total matches a fold

	svc := newTestOrderService(t)
	ctx := context.Background()

	o, items, err := svc.Create(ctx, "driver-1", "", []orders.LineInput{
		{ItemType: orders.WhiteBread, TrolliesOrQty: dec("2")},
		{ItemType: orders.Rolls, TrolliesOrQty: dec("1")},
		{ItemType: orders.LooseItems, TrolliesOrQty: dec("17")},
	})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.True(t, o.TotalQuantity.Equal(dec("287")), "total = %s", o.TotalQuantity)

	folded, err := svc.Recomputed(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, folded.Equal(o.TotalQuantity))
}

func TestOrderService_DriverXorVehicle(t *testing.T) {
	svc := newTestOrderService(t)
	ctx := context.Background()

	lines := []orders.LineInput{{ItemType: orders.WhiteBread, TrolliesOrQty: dec("1")}}

	// Neither set
	_, _, err := svc.Create(ctx, "", "", lines)
	assert.ErrorIs(t, err, ledger.ErrMissingField)

	// Both set
	_, _, err = svc.Create(ctx, "driver-1", "vehicle-1", lines)
	assert.ErrorIs(t, err, ledger.ErrMissingField)

	// Exactly one set succeeds either way
	_, _, err = svc.Create(ctx, "driver-1", "", lines)
	assert.NoError(t, err)
	_, _, err = svc.Create(ctx, "", "vehicle-1", lines)
	assert.NoError(t, err)
}

func TestOrderService_BadLineWritesNothing(t *testing.T) {
	// An order with any invalid line is rejected whole.

	svc := newTestOrderService(t)
	ctx := context.Background()

	_, _, err := svc.Create(ctx, "driver-1", "", []orders.LineInput{
		{ItemType: orders.WhiteBread, TrolliesOrQty: dec("1")},
		{ItemType: orders.BrownBread, TrolliesOrQty: decimal.Zero},
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)

	all, err := svc.Orders(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOrderService_NoLines_Rejected(t *testing.T) {
	svc := newTestOrderService(t)
	ctx := context.Background()

	_, _, err := svc.Create(ctx, "driver-1", "", nil)
	assert.ErrorIs(t, err, ledger.ErrMissingField)
}

// =============================================================================
// LOOKUP AND DELETE TESTS
// =============================================================================

func TestOrderService_RoundTripAndDelete(t *testing.T) {
	svc := newTestOrderService(t)
	ctx := context.Background()

	o, _, err := svc.Create(ctx, "", "vehicle-1", []orders.LineInput{
		{ItemType: orders.BucketBiscuits, TrolliesOrQty: dec("2")},
	})
	require.NoError(t, err)

	got, items, err := svc.Order(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "vehicle-1", got.VehicleID)
	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(dec("80")))
	assert.True(t, items[0].TrolliesOrQty.Equal(dec("2")))

	require.NoError(t, svc.Delete(ctx, o.ID))

	_, _, err = svc.Order(ctx, o.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	// Line items are gone too
	folded, err := svc.Recomputed(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, folded.IsZero())
}
