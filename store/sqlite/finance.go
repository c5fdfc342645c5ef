/*
finance.go - Income and expense persistence

Income and expense rows are immutable except for delete. Denomination splits
are stored as four decimal columns; totals are folded in the finance package,
never cached here.
*/
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aone/bakery-ledger/finance"
	"github.com/aone/bakery-ledger/ledger"
)

// =============================================================================
// INCOME (finance.Store interface)
// =============================================================================

func (s *Store) InsertIncome(ctx context.Context, in finance.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO income
		(id, notes, coins, amount_r5, amount_r2, amount_r1, amount_50c, total, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Notes.String(), in.Coins.String(),
		in.Split.R5.String(), in.Split.R2.String(), in.Split.R1.String(), in.Split.C50.String(),
		in.Total.String(), nullString(in.Description),
		in.CreatedAt.UTC().Format(time.RFC3339),
	)
	return ledger.Storage("insert income", err)
}

func (s *Store) DeleteIncome(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM income WHERE id = ?", id)
	if err != nil {
		return ledger.Storage("delete income", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (s *Store) ListIncome(ctx context.Context) ([]finance.Income, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, notes, coins, amount_r5, amount_r2, amount_r1, amount_50c, total, description, created_at
		FROM income ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, ledger.Storage("list income", err)
	}
	defer rows.Close()

	var records []finance.Income
	for rows.Next() {
		var (
			in                                      finance.Income
			notes, coins, r5, r2, r1, c50, total    string
			description                             sql.NullString
			createdAt                               string
		)
		if err := rows.Scan(&in.ID, &notes, &coins, &r5, &r2, &r1, &c50, &total,
			&description, &createdAt); err != nil {
			return nil, ledger.Storage("scan income", err)
		}
		in.Notes = ledger.MustParseDec(notes)
		in.Coins = ledger.MustParseDec(coins)
		in.Split = finance.CoinSplit{
			R5:  ledger.MustParseDec(r5),
			R2:  ledger.MustParseDec(r2),
			R1:  ledger.MustParseDec(r1),
			C50: ledger.MustParseDec(c50),
		}
		in.Total = ledger.MustParseDec(total)
		in.Description = description.String
		in.CreatedAt = parseTime(createdAt)
		records = append(records, in)
	}
	return records, ledger.Storage("list income", rows.Err())
}

// =============================================================================
// EXPENSES
// =============================================================================

func (s *Store) InsertExpense(ctx context.Context, ex finance.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses
		(id, amount, amount_r5, amount_r2, amount_r1, amount_50c, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ex.ID, ex.Amount.String(),
		ex.Split.R5.String(), ex.Split.R2.String(), ex.Split.R1.String(), ex.Split.C50.String(),
		ex.Description,
		ex.CreatedAt.UTC().Format(time.RFC3339),
	)
	return ledger.Storage("insert expense", err)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return ledger.Storage("delete expense", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]finance.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, amount_r5, amount_r2, amount_r1, amount_50c, description, created_at
		FROM expenses ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, ledger.Storage("list expenses", err)
	}
	defer rows.Close()

	var records []finance.Expense
	for rows.Next() {
		var (
			ex                              finance.Expense
			amount, r5, r2, r1, c50         string
			createdAt                       string
		)
		if err := rows.Scan(&ex.ID, &amount, &r5, &r2, &r1, &c50,
			&ex.Description, &createdAt); err != nil {
			return nil, ledger.Storage("scan expense", err)
		}
		ex.Amount = ledger.MustParseDec(amount)
		ex.Split = finance.CoinSplit{
			R5:  ledger.MustParseDec(r5),
			R2:  ledger.MustParseDec(r2),
			R1:  ledger.MustParseDec(r1),
			C50: ledger.MustParseDec(c50),
		}
		ex.CreatedAt = parseTime(createdAt)
		records = append(records, ex)
	}
	return records, ledger.Storage("list expenses", rows.Err())
}
