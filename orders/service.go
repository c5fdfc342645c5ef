/*
service.go - Order creation and queries

PURPOSE:
  Creates orders with derived line quantities and maintains the invariant
  that an order's total equals the sum of its line quantities. An order
  belongs to exactly one of a driver or a vehicle.

SEE ALSO:
  - rules.go: Quantity derivation
  - store/sqlite/orders.go: Persistence
*/
package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aone/bakery-ledger/ledger"
)

// =============================================================================
// TYPES
// =============================================================================

// Order tracks quantities only; there is no money on an order.
type Order struct {
	ID            string
	DriverID      string // exactly one of DriverID / VehicleID is set
	VehicleID     string
	TotalQuantity decimal.Decimal
	CreatedAt     time.Time
}

func (o Order) OccurredAt() time.Time        { return o.CreatedAt }
func (o Order) AmountValue() decimal.Decimal { return o.TotalQuantity }

type OrderItem struct {
	OrderID       string
	ItemType      ItemType
	TrolliesOrQty decimal.Decimal
	Quantity      decimal.Decimal // derived via the quantity rules
}

// LineInput is what the operator enters for one order line.
type LineInput struct {
	ItemType      ItemType
	TrolliesOrQty decimal.Decimal
}

// =============================================================================
// STORE
// =============================================================================

type Store interface {
	// InsertOrder writes the order and its items atomically.
	InsertOrder(ctx context.Context, o Order, items []OrderItem) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	OrderItems(ctx context.Context, orderID string) ([]OrderItem, error)
	ListOrders(ctx context.Context) ([]Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: ledger.Now}
}

// Create derives every line quantity via the rules, folds the total, and
// writes order and items atomically. Exactly one of driverID / vehicleID
// must be set and at least one line is required.
func (s *Service) Create(ctx context.Context, driverID, vehicleID string, lines []LineInput) (*Order, []OrderItem, error) {
	if (driverID == "") == (vehicleID == "") {
		return nil, nil, ledger.ErrMissingField
	}
	if len(lines) == 0 {
		return nil, nil, ledger.ErrMissingField
	}

	o := Order{
		ID:            uuid.NewString(),
		DriverID:      driverID,
		VehicleID:     vehicleID,
		TotalQuantity: decimal.Zero,
		CreatedAt:     s.now(),
	}

	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		qty, err := Quantity(line.ItemType, line.TrolliesOrQty)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, OrderItem{
			OrderID:       o.ID,
			ItemType:      line.ItemType,
			TrolliesOrQty: line.TrolliesOrQty,
			Quantity:      qty,
		})
		o.TotalQuantity = o.TotalQuantity.Add(qty)
	}

	if err := s.store.InsertOrder(ctx, o, items); err != nil {
		return nil, nil, err
	}
	return &o, items, nil
}

func (s *Service) Order(ctx context.Context, id string) (*Order, []OrderItem, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if o == nil {
		return nil, nil, ledger.ErrNotFound
	}
	items, err := s.store.OrderItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return o, items, nil
}

func (s *Service) Orders(ctx context.Context) ([]Order, error) {
	return s.store.ListOrders(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		return ledger.ErrNotFound
	}
	return s.store.DeleteOrder(ctx, id)
}

// Recomputed folds the order's line quantities. Equal to the stored total
// whenever the projection is healthy.
func (s *Service) Recomputed(ctx context.Context, orderID string) (decimal.Decimal, error) {
	items, err := s.store.OrderItems(ctx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Quantity)
	}
	return total, nil
}
