/*
Package supplier implements the supplier account ledger.

PURPOSE:
  Suppliers invoice the bakery; the bakery pays them down over time. Each
  invoice and payment is one row, and a supplier's balance is the fold
  sum(invoices) - sum(payments), recomputed on every read. Totals() runs the
  same fold across all suppliers for reporting.

SEE ALSO:
  - store/sqlite/supplier.go: Persistence
*/
package supplier

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

type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Phone         string
	CreatedAt     time.Time
}

// Invoice is an amount the supplier has billed. Name is a snapshot.
type Invoice struct {
	ID            string
	SupplierID    string
	SupplierName  string
	InvoiceNumber string
	Amount        decimal.Decimal
	InvoiceDate   time.Time
	DueDate       *time.Time
	Notes         string
}

func (i Invoice) OccurredAt() time.Time        { return i.InvoiceDate }
func (i Invoice) AmountValue() decimal.Decimal { return i.Amount }

// Payment is an amount paid against a supplier's account.
type Payment struct {
	ID            string
	SupplierID    string
	SupplierName  string
	Amount        decimal.Decimal
	PaymentMethod string
	Reference     string
	Notes         string
	PaymentDate   time.Time
}

func (p Payment) OccurredAt() time.Time        { return p.PaymentDate }
func (p Payment) AmountValue() decimal.Decimal { return p.Amount }

// Totals aggregates the ledger across all suppliers.
type Totals struct {
	Invoiced    decimal.Decimal
	Paid        decimal.Decimal
	Outstanding decimal.Decimal // Invoiced - Paid
}

// =============================================================================
// STORE
// =============================================================================

type Store interface {
	CreateSupplier(ctx context.Context, s Supplier) error
	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error

	InsertInvoice(ctx context.Context, inv Invoice) error
	InsertPayment(ctx context.Context, p Payment) error

	// Invoices and Payments return rows for one supplier, or all rows when
	// supplierID is empty, oldest-first.
	Invoices(ctx context.Context, supplierID string) ([]Invoice, error)
	Payments(ctx context.Context, supplierID string) ([]Payment, error)
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

func (l *Ledger) CreateSupplier(ctx context.Context, name, contactPerson, phone string) (*Supplier, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ledger.ErrMissingField
	}
	s := Supplier{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(name),
		ContactPerson: contactPerson,
		Phone:         phone,
		CreatedAt:     l.now(),
	}
	if err := l.store.CreateSupplier(ctx, s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (l *Ledger) Supplier(ctx context.Context, id string) (*Supplier, error) {
	s, err := l.store.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ledger.ErrNotFound
	}
	return s, nil
}

func (l *Ledger) Suppliers(ctx context.Context) ([]Supplier, error) {
	return l.store.ListSuppliers(ctx)
}

// DeleteSupplier removes the supplier row. Invoices and payments keep the
// name snapshot and stay queryable.
func (l *Ledger) DeleteSupplier(ctx context.Context, id string) error {
	if _, err := l.Supplier(ctx, id); err != nil {
		return err
	}
	return l.store.DeleteSupplier(ctx, id)
}

// RecordInvoice appends an invoice against a supplier's account.
func (l *Ledger) RecordInvoice(ctx context.Context, supplierID, invoiceNumber string, amount decimal.Decimal, invoiceDate time.Time, dueDate *time.Time, notes string) (*Invoice, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	if strings.TrimSpace(invoiceNumber) == "" {
		return nil, ledger.ErrMissingField
	}
	s, err := l.Supplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	inv := Invoice{
		ID:            uuid.NewString(),
		SupplierID:    s.ID,
		SupplierName:  s.Name,
		InvoiceNumber: strings.TrimSpace(invoiceNumber),
		Amount:        amount,
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		Notes:         notes,
	}
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = l.now()
	}
	if err := l.store.InsertInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// RecordPayment appends a payment against a supplier's account.
func (l *Ledger) RecordPayment(ctx context.Context, supplierID string, amount decimal.Decimal, method, reference, notes string, paymentDate time.Time) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	if strings.TrimSpace(method) == "" {
		return nil, ledger.ErrMissingField
	}
	s, err := l.Supplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	p := Payment{
		ID:            uuid.NewString(),
		SupplierID:    s.ID,
		SupplierName:  s.Name,
		Amount:        amount,
		PaymentMethod: strings.TrimSpace(method),
		Reference:     reference,
		Notes:         notes,
		PaymentDate:   paymentDate,
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = l.now()
	}
	if err := l.store.InsertPayment(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Balance folds one supplier's account: invoiced minus paid.
func (l *Ledger) Balance(ctx context.Context, supplierID string) (decimal.Decimal, error) {
	if _, err := l.Supplier(ctx, supplierID); err != nil {
		return decimal.Zero, err
	}
	invoices, err := l.store.Invoices(ctx, supplierID)
	if err != nil {
		return decimal.Zero, err
	}
	payments, err := l.store.Payments(ctx, supplierID)
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, inv := range invoices {
		balance = balance.Add(inv.Amount)
	}
	for _, p := range payments {
		balance = balance.Sub(p.Amount)
	}
	return balance, nil
}

// Totals folds the whole ledger across all suppliers.
func (l *Ledger) Totals(ctx context.Context) (Totals, error) {
	invoices, err := l.store.Invoices(ctx, "")
	if err != nil {
		return Totals{}, err
	}
	payments, err := l.store.Payments(ctx, "")
	if err != nil {
		return Totals{}, err
	}

	var t Totals
	t.Invoiced = decimal.Zero
	t.Paid = decimal.Zero
	for _, inv := range invoices {
		t.Invoiced = t.Invoiced.Add(inv.Amount)
	}
	for _, p := range payments {
		t.Paid = t.Paid.Add(p.Amount)
	}
	t.Outstanding = t.Invoiced.Sub(t.Paid)
	return t, nil
}

func (l *Ledger) Invoices(ctx context.Context, supplierID string) ([]Invoice, error) {
	return l.store.Invoices(ctx, supplierID)
}

func (l *Ledger) Payments(ctx context.Context, supplierID string) ([]Payment, error) {
	return l.store.Payments(ctx, supplierID)
}
