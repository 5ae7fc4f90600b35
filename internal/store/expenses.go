package store

import (
	"database/sql"
	"errors"
	"fmt"

	"AutoCenter/internal/state"

	"go.uber.org/zap"
)

const expenseSelect = `SELECT id, COALESCE(date, ''), COALESCE(description, ''), COALESCE(value, 0),
	COALESCE(category, ''), COALESCE(payment_method, ''), COALESCE(created_at, '') FROM expenses`

func scanExpense(row interface{ Scan(...any) error }) (state.Expense, error) {
	var e state.Expense
	var pm string
	err := row.Scan(&e.ID, &e.Date, &e.Description, &e.Value, &e.Category, &pm, &e.CreatedAt)
	e.PaymentMethod = state.PaymentMethod(pm)
	return e, err
}

// ListExpenses returns expenses, newest first.
func (s *Store) ListExpenses() ([]state.Expense, error) {
	rows, err := s.db.Query(expenseSelect + ` ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []state.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("list expenses: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetExpense(id int64) (state.Expense, error) {
	e, err := scanExpense(s.db.QueryRow(expenseSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, fmt.Errorf("expense %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return e, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

func (s *Store) AddExpense(e state.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`INSERT INTO expenses (date, description, value, category, payment_method, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		e.Date, e.Description, e.Value, e.Category, string(e.PaymentMethod))
	if err != nil {
		return 0, fmt.Errorf("add expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add expense: %w", err)
	}
	s.log.Info("expense added", zap.Int64("id", id))
	return id, nil
}

func (s *Store) UpdateExpense(e state.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	err := s.execOne(`UPDATE expenses SET date = ?, description = ?, value = ?, category = ?, payment_method = ?
		WHERE id = ?`, e.Date, e.Description, e.Value, e.Category, string(e.PaymentMethod), e.ID)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	s.log.Info("expense updated", zap.Int64("id", e.ID))
	return nil
}

func (s *Store) DeleteExpense(id int64) error {
	if err := s.execOne(`DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	s.log.Info("expense deleted", zap.Int64("id", id))
	return nil
}
