/*
supplier.go - Supplier, invoice, and payment persistence

Invoices and payments keep the supplier name snapshot, so deleting a supplier
leaves its account history intact and displayable.
*/
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aone/bakery-ledger/ledger"
	"github.com/aone/bakery-ledger/supplier"
)

// =============================================================================
// SUPPLIERS (supplier.Store interface)
// =============================================================================

func (s *Store) CreateSupplier(ctx context.Context, sup supplier.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, contact_person, phone, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		sup.ID, sup.Name, nullString(sup.ContactPerson), nullString(sup.Phone),
		sup.CreatedAt.UTC().Format(time.RFC3339),
	)
	return ledger.Storage("create supplier", err)
}

func (s *Store) GetSupplier(ctx context.Context, id string) (*supplier.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		sup            supplier.Supplier
		contact, phone sql.NullString
		createdAt      string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, contact_person, phone, created_at FROM suppliers WHERE id = ?",
		id,
	).Scan(&sup.ID, &sup.Name, &contact, &phone, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ledger.Storage("get supplier", err)
	}

	sup.ContactPerson = contact.String
	sup.Phone = phone.String
	sup.CreatedAt = parseTime(createdAt)
	return &sup, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]supplier.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, contact_person, phone, created_at FROM suppliers ORDER BY name")
	if err != nil {
		return nil, ledger.Storage("list suppliers", err)
	}
	defer rows.Close()

	var suppliers []supplier.Supplier
	for rows.Next() {
		var (
			sup            supplier.Supplier
			contact, phone sql.NullString
			createdAt      string
		)
		if err := rows.Scan(&sup.ID, &sup.Name, &contact, &phone, &createdAt); err != nil {
			return nil, ledger.Storage("scan supplier", err)
		}
		sup.ContactPerson = contact.String
		sup.Phone = phone.String
		sup.CreatedAt = parseTime(createdAt)
		suppliers = append(suppliers, sup)
	}
	return suppliers, ledger.Storage("list suppliers", rows.Err())
}

// DeleteSupplier removes the supplier row. Account history is retained.
func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM suppliers WHERE id = ?", id)
	return ledger.Storage("delete supplier", err)
}

// =============================================================================
// INVOICES AND PAYMENTS
// =============================================================================

func (s *Store) InsertInvoice(ctx context.Context, inv supplier.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO supplier_invoices
		(id, supplier_id, supplier_name, invoice_number, amount, invoice_date, due_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.SupplierID, inv.SupplierName, inv.InvoiceNumber,
		inv.Amount.String(),
		inv.InvoiceDate.UTC().Format(time.RFC3339),
		nullTime(inv.DueDate), nullString(inv.Notes),
	)
	return ledger.Storage("insert invoice", err)
}

func (s *Store) InsertPayment(ctx context.Context, p supplier.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO supplier_payments
		(id, supplier_id, supplier_name, amount, payment_method, reference, notes, payment_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SupplierID, p.SupplierName,
		p.Amount.String(), p.PaymentMethod,
		nullString(p.Reference), nullString(p.Notes),
		p.PaymentDate.UTC().Format(time.RFC3339),
	)
	return ledger.Storage("insert payment", err)
}

// Invoices returns one supplier's invoices, or all when supplierID is empty.
func (s *Store) Invoices(ctx context.Context, supplierID string) ([]supplier.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, supplier_id, supplier_name, invoice_number, amount, invoice_date, due_date, notes
		FROM supplier_invoices`
	var args []any
	if supplierID != "" {
		query += " WHERE supplier_id = ?"
		args = append(args, supplierID)
	}
	query += " ORDER BY invoice_date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledger.Storage("query invoices", err)
	}
	defer rows.Close()

	var invoices []supplier.Invoice
	for rows.Next() {
		var (
			inv                 supplier.Invoice
			amount, invoiceDate string
			dueDate, notes      sql.NullString
		)
		if err := rows.Scan(&inv.ID, &inv.SupplierID, &inv.SupplierName, &inv.InvoiceNumber,
			&amount, &invoiceDate, &dueDate, &notes); err != nil {
			return nil, ledger.Storage("scan invoice", err)
		}
		inv.Amount = ledger.MustParseDec(amount)
		inv.InvoiceDate = parseTime(invoiceDate)
		inv.DueDate = parseNullTime(dueDate)
		inv.Notes = notes.String
		invoices = append(invoices, inv)
	}
	return invoices, ledger.Storage("query invoices", rows.Err())
}

// Payments returns one supplier's payments, or all when supplierID is empty.
func (s *Store) Payments(ctx context.Context, supplierID string) ([]supplier.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, supplier_id, supplier_name, amount, payment_method, reference, notes, payment_date
		FROM supplier_payments`
	var args []any
	if supplierID != "" {
		query += " WHERE supplier_id = ?"
		args = append(args, supplierID)
	}
	query += " ORDER BY payment_date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledger.Storage("query payments", err)
	}
	defer rows.Close()

	var payments []supplier.Payment
	for rows.Next() {
		var (
			p                   supplier.Payment
			amount, paymentDate string
			reference, notes    sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.SupplierName,
			&amount, &p.PaymentMethod, &reference, &notes, &paymentDate); err != nil {
			return nil, ledger.Storage("scan payment", err)
		}
		p.Amount = ledger.MustParseDec(amount)
		p.Reference = reference.String
		p.Notes = notes.String
		p.PaymentDate = parseTime(paymentDate)
		payments = append(payments, p)
	}
	return payments, ledger.Storage("query payments", rows.Err())
}
