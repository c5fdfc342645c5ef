/*
Package orders implements delivery orders and the quantity rules.

PURPOSE:
  An order assigns bread and biscuit quantities to either a driver or a
  vehicle. Operators enter quantities in the units they handle (trollies of
  bread, buckets of biscuits); the quantity rules convert those to unit
  counts, and the order total is the fold over its line quantities.

QUANTITY RULES:
  The conversion table is fixed:
    White Bread      60 loaves per trolley
    Brown Bread      60 loaves per trolley
    Rolls            150 rolls per trolley
    Bucket Biscuits  40 biscuits per bucket
    Loose Items      entered quantity passes through unchanged

SEE ALSO:
  - service.go: Order creation and the total-quantity invariant
*/
package orders

import (
	"github.com/shopspring/decimal"

	"github.com/aone/bakery-ledger/ledger"
)

// =============================================================================
// ITEM TYPES AND THE RULE TABLE
// =============================================================================

type ItemType string

const (
	WhiteBread     ItemType = "White Bread"
	BrownBread     ItemType = "Brown Bread"
	Rolls          ItemType = "Rolls"
	BucketBiscuits ItemType = "Bucket Biscuits"
	LooseItems     ItemType = "Loose Items"
)

// unitsPer converts a container count to units. Loose Items are absent on
// purpose: they pass through.
var unitsPer = map[ItemType]int64{
	WhiteBread:     60,
	BrownBread:     60,
	Rolls:          150,
	BucketBiscuits: 40,
}

// ItemTypes lists every item type the rules know, in menu order.
func ItemTypes() []ItemType {
	return []ItemType{WhiteBread, BrownBread, Rolls, BucketBiscuits, LooseItems}
}

// Quantity derives the unit quantity for an order line from the item type and
// the operator-entered figure (trollies, buckets, or a loose count).
func Quantity(itemType ItemType, trolliesOrQty decimal.Decimal) (decimal.Decimal, error) {
	if !trolliesOrQty.IsPositive() {
		return decimal.Zero, ledger.ErrInvalidQuantity
	}
	if itemType == LooseItems {
		return trolliesOrQty, nil
	}
	per, ok := unitsPer[itemType]
	if !ok {
		return decimal.Zero, ledger.ErrMissingField
	}
	return trolliesOrQty.Mul(decimal.NewFromInt(per)), nil
}
