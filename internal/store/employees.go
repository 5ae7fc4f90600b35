package store

import (
	"database/sql"
	"errors"
	"fmt"

	"AutoCenter/internal/state"

	"go.uber.org/zap"
)

const employeeSelect = `SELECT id, name, document, COALESCE(role, ''), COALESCE(hire_date, ''),
	COALESCE(created_at, '') FROM employees`

func scanEmployee(row interface{ Scan(...any) error }) (state.Employee, error) {
	var e state.Employee
	err := row.Scan(&e.ID, &e.Name, &e.Document, &e.Role, &e.HireDate, &e.CreatedAt)
	return e, err
}

func (s *Store) ListEmployees() ([]state.Employee, error) {
	rows, err := s.db.Query(employeeSelect + ` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []state.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("list employees: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(id int64) (state.Employee, error) {
	e, err := scanEmployee(s.db.QueryRow(employeeSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return e, fmt.Errorf("employee %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return e, fmt.Errorf("get employee %d: %w", id, err)
	}
	return e, nil
}

func (s *Store) AddEmployee(e state.Employee) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`INSERT INTO employees (name, document, role, hire_date, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`, e.Name, e.Document, e.Role, nullString(e.HireDate))
	if err != nil {
		return 0, fmt.Errorf("add employee: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add employee: %w", err)
	}
	s.log.Info("employee added", zap.Int64("id", id))
	return id, nil
}

func (s *Store) UpdateEmployee(e state.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}
	err := s.execOne(`UPDATE employees SET name = ?, document = ?, role = ?, hire_date = ? WHERE id = ?`,
		e.Name, e.Document, e.Role, nullString(e.HireDate), e.ID)
	if err != nil {
		return fmt.Errorf("update employee %d: %w", e.ID, err)
	}
	s.log.Info("employee updated", zap.Int64("id", e.ID))
	return nil
}

// DeleteEmployee refuses with ErrInUse while a service order names them.
func (s *Store) DeleteEmployee(id int64) error {
	n, err := s.count(`SELECT COUNT(*) FROM service_orders WHERE employee_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	if n > 0 {
		s.log.Warn("employee is on service orders, not deleting", zap.Int64("id", id), zap.Int("orders", n))
		return fmt.Errorf("delete employee %d: %w", id, ErrInUse)
	}
	if err := s.execOne(`DELETE FROM employees WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	s.log.Info("employee deleted", zap.Int64("id", id))
	return nil
}
