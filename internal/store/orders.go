package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"AutoCenter/internal/state"

	"go.uber.org/zap"
)

const orderSelect = `SELECT so.id, so.number, COALESCE(so.open_date, ''), COALESCE(so.vehicle_id, 0),
	COALESCE(so.description, ''), COALESCE(so.status, ''), COALESCE(so.employee_id, 0),
	COALESCE(so.completion_date, ''), COALESCE(so.total_value, 0), COALESCE(so.payment_method, ''),
	COALESCE(so.client_signature, ''), COALESCE(so.mechanic_signature, ''),
	COALESCE(v.plate, ''), COALESCE(c.name, ''), COALESCE(e.name, '')
	FROM service_orders so
	LEFT JOIN vehicles v ON so.vehicle_id = v.id
	LEFT JOIN clients c ON v.client_id = c.id
	LEFT JOIN employees e ON so.employee_id = e.id`

// parseTime accepts both full timestamps and bare dates.
func parseTime(s string) (time.Time, bool) {
	for _, layout := range []string{state.TimeLayout, state.DateLayout, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func scanOrder(row interface{ Scan(...any) error }) (state.OrderDetail, error) {
	var (
		d                          state.OrderDetail
		open, done, status, method string
	)
	err := row.Scan(&d.ID, &d.Number, &open, &d.VehicleID, &d.Description, &status, &d.EmployeeID,
		&done, &d.TotalValue, &method, &d.ClientSignature, &d.MechanicSignature,
		&d.VehiclePlate, &d.ClientName, &d.EmployeeName)
	if err != nil {
		return d, err
	}
	d.Status = state.OrderStatus(status)
	d.PaymentMethod = state.PaymentMethod(method)
	if t, ok := parseTime(open); ok {
		d.OpenDate = t
	}
	if t, ok := parseTime(done); ok {
		d.CompletionDate = &t
	}
	return d, nil
}

// ListOrders returns every order with vehicle, client and employee names,
// newest first. Parts are not loaded.
func (s *Store) ListOrders() ([]state.OrderDetail, error) {
	rows, err := s.db.Query(orderSelect + ` ORDER BY so.open_date DESC, so.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []state.OrderDetail
	for rows.Next() {
		d, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("list orders: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetOrder loads one order with its parts.
func (s *Store) GetOrder(id int64) (state.OrderDetail, error) {
	d, err := scanOrder(s.db.QueryRow(orderSelect+` WHERE so.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return d, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return d, fmt.Errorf("get order %d: %w", id, err)
	}

	rows, err := s.db.Query(`SELECT op.id, op.part_id, p.code, p.description, op.quantity, op.price
		FROM order_parts op
		JOIN parts p ON op.part_id = p.id
		WHERE op.order_id = ?
		ORDER BY op.id`, id)
	if err != nil {
		return d, fmt.Errorf("get order %d parts: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var op state.OrderPart
		if err := rows.Scan(&op.ID, &op.PartID, &op.Code, &op.Description, &op.Quantity, &op.Price); err != nil {
			return d, fmt.Errorf("get order %d parts: %w", id, err)
		}
		d.Parts = append(d.Parts, op)
	}
	return d, rows.Err()
}

func completionValue(o state.ServiceOrder) any {
	if !o.CompletionApplies() || o.CompletionDate == nil {
		return nil
	}
	return o.CompletionDate.Format(state.TimeLayout)
}

func insertParts(tx *sql.Tx, orderID int64, parts []state.OrderPart) error {
	for _, p := range parts {
		_, err := tx.Exec(`INSERT INTO order_parts (order_id, part_id, quantity, price) VALUES (?, ?, ?, ?)`,
			orderID, p.PartID, p.Quantity, p.Price)
		if err != nil {
			return err
		}
	}
	return nil
}

// AddOrder inserts an order and its parts in one transaction. A zero
// OpenDate means now.
func (s *Store) AddOrder(o state.ServiceOrder) (int64, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}
	if o.OpenDate.IsZero() {
		o.OpenDate = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("add order: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO service_orders (
			number, open_date, vehicle_id, description, status, employee_id,
			completion_date, total_value, payment_method, client_signature, mechanic_signature, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		o.Number, o.OpenDate.Format(state.TimeLayout), o.VehicleID, o.Description, string(o.Status), o.EmployeeID,
		completionValue(o), o.TotalValue, string(o.PaymentMethod),
		nullString(o.ClientSignature), nullString(o.MechanicSignature))
	if err != nil {
		return 0, fmt.Errorf("add order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add order: %w", err)
	}
	if err := insertParts(tx, id, o.Parts); err != nil {
		return 0, fmt.Errorf("add order parts: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("add order: %w", err)
	}
	s.log.Info("order added", zap.Int64("id", id), zap.String("number", o.Number), zap.Int("parts", len(o.Parts)))
	return id, nil
}

// UpdateOrder rewrites an order and replaces its parts. Signatures are only
// overwritten when the order carries a new one.
func (s *Store) UpdateOrder(o state.ServiceOrder) error {
	if err := o.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("update order %d: %w", o.ID, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE service_orders
		SET number = ?, vehicle_id = ?, description = ?, status = ?, employee_id = ?,
			completion_date = ?, total_value = ?, payment_method = ?
		WHERE id = ?`,
		o.Number, o.VehicleID, o.Description, string(o.Status), o.EmployeeID,
		completionValue(o), o.TotalValue, string(o.PaymentMethod), o.ID)
	if err != nil {
		return fmt.Errorf("update order %d: %w", o.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %d: %w", o.ID, ErrNotFound)
	}
	if !o.OpenDate.IsZero() {
		if _, err := tx.Exec(`UPDATE service_orders SET open_date = ? WHERE id = ?`,
			o.OpenDate.Format(state.TimeLayout), o.ID); err != nil {
			return fmt.Errorf("update order %d: %w", o.ID, err)
		}
	}
	if err := setSignatures(tx, o.ID, o.ClientSignature, o.MechanicSignature); err != nil {
		return fmt.Errorf("update order %d signatures: %w", o.ID, err)
	}

	if _, err := tx.Exec(`DELETE FROM order_parts WHERE order_id = ?`, o.ID); err != nil {
		return fmt.Errorf("update order %d parts: %w", o.ID, err)
	}
	if err := insertParts(tx, o.ID, o.Parts); err != nil {
		return fmt.Errorf("update order %d parts: %w", o.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update order %d: %w", o.ID, err)
	}
	s.log.Info("order updated", zap.Int64("id", o.ID))
	return nil
}

func setSignatures(tx *sql.Tx, id int64, client, mechanic string) error {
	if client != "" {
		if _, err := tx.Exec(`UPDATE service_orders SET client_signature = ? WHERE id = ?`, client, id); err != nil {
			return err
		}
	}
	if mechanic != "" {
		if _, err := tx.Exec(`UPDATE service_orders SET mechanic_signature = ? WHERE id = ?`, mechanic, id); err != nil {
			return err
		}
	}
	return nil
}

// SetSignatures stores the given encoded signatures on an order. Empty
// arguments leave the stored value alone.
func (s *Store) SetSignatures(id int64, client, mechanic string) error {
	n, err := s.count(`SELECT COUNT(*) FROM service_orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("set signatures %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("set signatures %d: %w", id, err)
	}
	defer tx.Rollback()
	if err := setSignatures(tx, id, client, mechanic); err != nil {
		return fmt.Errorf("set signatures %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set signatures %d: %w", id, err)
	}
	s.log.Info("signatures saved", zap.Int64("order", id),
		zap.Bool("client", client != ""), zap.Bool("mechanic", mechanic != ""))
	return nil
}

// DeleteOrder removes an order together with its parts.
func (s *Store) DeleteOrder(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM order_parts WHERE order_id = ?`, id); err != nil {
		return fmt.Errorf("delete order %d parts: %w", id, err)
	}
	res, err := tx.Exec(`DELETE FROM service_orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	s.log.Info("order deleted", zap.Int64("id", id))
	return nil
}
