/*
Package credit implements the employee credit ledger.

PURPOSE:
  Employees borrow cash against wages and repay it over time. Each borrow or
  repayment is one transaction row; the employee's balance is the signed fold
  over all of their rows, recomputed on every read. Unlike the stock movement
  log, credit transactions may be edited or deleted: because the balance is
  never stored, the next fold picks the change up automatically.

BALANCE:
  balance = sum(BORROW amounts) - sum(REPAY amounts)
  balance > 0   employee owes the business
  balance <= 0  settled or overpaid

SEE ALSO:
  - store/sqlite/credit.go: Persistence
*/
package credit

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

type TransactionType string

const (
	TxBorrow TransactionType = "BORROW"
	TxRepay  TransactionType = "REPAY"
)

// Transaction is one credit ledger row. Mutable: Edit updates it in place,
// Delete removes it.
type Transaction struct {
	ID           string
	EmployeeID   string
	EmployeeName string // snapshot, survives employee rename/delete
	Type         TransactionType
	Amount       decimal.Decimal // always positive; sign comes from Type
	Reason       string
	CreatedAt    time.Time
}

// Signed returns the amount with the sign implied by the transaction type.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TxRepay {
		return t.Amount.Neg()
	}
	return t.Amount
}

func (t Transaction) OccurredAt() time.Time        { return t.CreatedAt }
func (t Transaction) AmountValue() decimal.Decimal { return t.Amount }

// Employee is the directory record credit transactions reference.
// PhotoPath is a filesystem path string; the engine never touches the bytes.
type Employee struct {
	ID            string
	Name          string
	Phone         string
	LicenseExpiry *time.Time
	PhotoPath     string
	CreatedAt     time.Time
}

// =============================================================================
// STORE
// =============================================================================

type Store interface {
	CreateEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	UpdateEmployee(ctx context.Context, e Employee) error
	DeleteEmployee(ctx context.Context, id string) error

	InsertCreditTransaction(ctx context.Context, tx Transaction) error
	GetCreditTransaction(ctx context.Context, id string) (*Transaction, error)
	UpdateCreditTransaction(ctx context.Context, tx Transaction) error
	DeleteCreditTransaction(ctx context.Context, id string) error

	// CreditTransactions returns rows for one employee, or all rows when
	// employeeID is empty, oldest-first.
	CreditTransactions(ctx context.Context, employeeID string) ([]Transaction, error)
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

// Record appends a borrow or repayment for an employee.
func (l *Ledger) Record(ctx context.Context, employeeID string, txType TransactionType, amount decimal.Decimal, reason string) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ledger.ErrMissingField
	}
	emp, err := l.Employee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	tx := Transaction{
		ID:           uuid.NewString(),
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Type:         txType,
		Amount:       amount,
		Reason:       strings.TrimSpace(reason),
		CreatedAt:    l.now(),
	}
	if err := l.store.InsertCreditTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Edit updates amount, reason, and date of an existing transaction in place.
// The employee balance reflects the change on the next read.
func (l *Ledger) Edit(ctx context.Context, id string, amount decimal.Decimal, reason string, at time.Time) (*Transaction, error) {
	if !amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ledger.ErrMissingField
	}
	tx, err := l.store.GetCreditTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ledger.ErrNotFound
	}

	tx.Amount = amount
	tx.Reason = strings.TrimSpace(reason)
	if !at.IsZero() {
		tx.CreatedAt = at
	}
	if err := l.store.UpdateCreditTransaction(ctx, *tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Delete removes a transaction row.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	tx, err := l.store.GetCreditTransaction(ctx, id)
	if err != nil {
		return err
	}
	if tx == nil {
		return ledger.ErrNotFound
	}
	return l.store.DeleteCreditTransaction(ctx, id)
}

// Balance folds all of the employee's transactions.
func (l *Ledger) Balance(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	txs, err := l.store.CreditTransactions(ctx, employeeID)
	if err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	for _, tx := range txs {
		balance = balance.Add(tx.Signed())
	}
	return balance, nil
}

// Transactions returns the employee's rows oldest-first, or every row when
// employeeID is empty.
func (l *Ledger) Transactions(ctx context.Context, employeeID string) ([]Transaction, error) {
	return l.store.CreditTransactions(ctx, employeeID)
}

// =============================================================================
// EMPLOYEE DIRECTORY
// =============================================================================

func (l *Ledger) CreateEmployee(ctx context.Context, name, phone string, licenseExpiry *time.Time, photoPath string) (*Employee, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ledger.ErrMissingField
	}
	e := Employee{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(name),
		Phone:         phone,
		LicenseExpiry: licenseExpiry,
		PhotoPath:     photoPath,
		CreatedAt:     l.now(),
	}
	if err := l.store.CreateEmployee(ctx, e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (l *Ledger) Employee(ctx context.Context, id string) (*Employee, error) {
	e, err := l.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ledger.ErrNotFound
	}
	return e, nil
}

func (l *Ledger) Employees(ctx context.Context) ([]Employee, error) {
	return l.store.ListEmployees(ctx)
}

func (l *Ledger) UpdateEmployee(ctx context.Context, e Employee) error {
	if strings.TrimSpace(e.Name) == "" {
		return ledger.ErrMissingField
	}
	if _, err := l.Employee(ctx, e.ID); err != nil {
		return err
	}
	return l.store.UpdateEmployee(ctx, e)
}

// DeleteEmployee removes the directory row. Credit history keeps the name
// snapshot and stays queryable.
func (l *Ledger) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := l.Employee(ctx, id); err != nil {
		return err
	}
	return l.store.DeleteEmployee(ctx, id)
}
