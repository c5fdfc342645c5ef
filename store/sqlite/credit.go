/*
credit.go - Employee directory and credit transaction persistence

Credit rows are mutable: updates and deletes are plain SQL statements, and a
statement that touches zero rows reports not-found so the caller can surface
it. Balances are never stored; the credit ledger folds the rows on read.
*/
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aone/bakery-ledger/credit"
	"github.com/aone/bakery-ledger/ledger"
)

// =============================================================================
// EMPLOYEES (credit.Store interface)
// =============================================================================

func (s *Store) CreateEmployee(ctx context.Context, e credit.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, phone, license_expiry, photo_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, nullString(e.Phone), nullTime(e.LicenseExpiry),
		nullString(e.PhotoPath), e.CreatedAt.UTC().Format(time.RFC3339),
	)
	return ledger.Storage("create employee", err)
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*credit.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		e                        credit.Employee
		phone, expiry, photoPath sql.NullString
		createdAt                string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, phone, license_expiry, photo_path, created_at FROM employees WHERE id = ?",
		id,
	).Scan(&e.ID, &e.Name, &phone, &expiry, &photoPath, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ledger.Storage("get employee", err)
	}

	e.Phone = phone.String
	e.LicenseExpiry = parseNullTime(expiry)
	e.PhotoPath = photoPath.String
	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]credit.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, phone, license_expiry, photo_path, created_at FROM employees ORDER BY name")
	if err != nil {
		return nil, ledger.Storage("list employees", err)
	}
	defer rows.Close()

	var employees []credit.Employee
	for rows.Next() {
		var (
			e                        credit.Employee
			phone, expiry, photoPath sql.NullString
			createdAt                string
		)
		if err := rows.Scan(&e.ID, &e.Name, &phone, &expiry, &photoPath, &createdAt); err != nil {
			return nil, ledger.Storage("scan employee", err)
		}
		e.Phone = phone.String
		e.LicenseExpiry = parseNullTime(expiry)
		e.PhotoPath = photoPath.String
		e.CreatedAt = parseTime(createdAt)
		employees = append(employees, e)
	}
	return employees, ledger.Storage("list employees", rows.Err())
}

func (s *Store) UpdateEmployee(ctx context.Context, e credit.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE employees SET name = ?, phone = ?, license_expiry = ?, photo_path = ?
		WHERE id = ?`,
		e.Name, nullString(e.Phone), nullTime(e.LicenseExpiry), nullString(e.PhotoPath), e.ID,
	)
	if err != nil {
		return ledger.Storage("update employee", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// DeleteEmployee removes the directory row. Credit history is retained.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	return ledger.Storage("delete employee", err)
}

// =============================================================================
// CREDIT TRANSACTIONS
// =============================================================================

func (s *Store) InsertCreditTransaction(ctx context.Context, tx credit.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credit_transactions
		(id, employee_id, employee_name, transaction_type, amount, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.EmployeeID, tx.EmployeeName, tx.Type,
		tx.Amount.String(), tx.Reason,
		tx.CreatedAt.UTC().Format(time.RFC3339),
	)
	return ledger.Storage("insert credit transaction", err)
}

func (s *Store) GetCreditTransaction(ctx context.Context, id string) (*credit.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		tx                credit.Transaction
		amount, createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, employee_name, transaction_type, amount, reason, created_at
		FROM credit_transactions WHERE id = ?`,
		id,
	).Scan(&tx.ID, &tx.EmployeeID, &tx.EmployeeName, &tx.Type, &amount, &tx.Reason, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ledger.Storage("get credit transaction", err)
	}

	tx.Amount = ledger.MustParseDec(amount)
	tx.CreatedAt = parseTime(createdAt)
	return &tx, nil
}

func (s *Store) UpdateCreditTransaction(ctx context.Context, tx credit.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE credit_transactions SET amount = ?, reason = ?, created_at = ?
		WHERE id = ?`,
		tx.Amount.String(), tx.Reason, tx.CreatedAt.UTC().Format(time.RFC3339), tx.ID,
	)
	if err != nil {
		return ledger.Storage("update credit transaction", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCreditTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM credit_transactions WHERE id = ?", id)
	if err != nil {
		return ledger.Storage("delete credit transaction", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// CreditTransactions returns one employee's rows, or all rows when
// employeeID is empty, oldest-first.
func (s *Store) CreditTransactions(ctx context.Context, employeeID string) ([]credit.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, employee_name, transaction_type, amount, reason, created_at
		FROM credit_transactions`
	var args []any
	if employeeID != "" {
		query += " WHERE employee_id = ?"
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ledger.Storage("query credit transactions", err)
	}
	defer rows.Close()

	var txs []credit.Transaction
	for rows.Next() {
		var (
			tx                credit.Transaction
			amount, createdAt string
		)
		if err := rows.Scan(&tx.ID, &tx.EmployeeID, &tx.EmployeeName, &tx.Type,
			&amount, &tx.Reason, &createdAt); err != nil {
			return nil, ledger.Storage("scan credit transaction", err)
		}
		tx.Amount = ledger.MustParseDec(amount)
		tx.CreatedAt = parseTime(createdAt)
		txs = append(txs, tx)
	}
	return txs, ledger.Storage("query credit transactions", rows.Err())
}
