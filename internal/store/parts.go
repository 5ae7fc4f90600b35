package store

import (
	"database/sql"
	"errors"
	"fmt"

	"AutoCenter/internal/state"

	"go.uber.org/zap"
)

const partSelect = `SELECT id, code, description, COALESCE(stock_quantity, 0), COALESCE(buy_price, 0),
	COALESCE(sell_price, 0), COALESCE(created_at, '') FROM parts`

func scanPart(row interface{ Scan(...any) error }) (state.Part, error) {
	var p state.Part
	err := row.Scan(&p.ID, &p.Code, &p.Description, &p.StockQuantity, &p.BuyPrice, &p.SellPrice, &p.CreatedAt)
	return p, err
}

// ListParts returns the catalogue ordered by code.
func (s *Store) ListParts() ([]state.Part, error) {
	rows, err := s.db.Query(partSelect + ` ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()

	var out []state.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("list parts: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPart(id int64) (state.Part, error) {
	p, err := scanPart(s.db.QueryRow(partSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("part %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("get part %d: %w", id, err)
	}
	return p, nil
}

func (s *Store) AddPart(p state.Part) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`INSERT INTO parts (code, description, stock_quantity, buy_price, sell_price, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		p.Code, p.Description, p.StockQuantity, p.BuyPrice, p.SellPrice)
	if err != nil {
		return 0, fmt.Errorf("add part: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add part: %w", err)
	}
	s.log.Info("part added", zap.Int64("id", id), zap.String("code", p.Code))
	return id, nil
}

func (s *Store) UpdatePart(p state.Part) error {
	if err := p.Validate(); err != nil {
		return err
	}
	err := s.execOne(`UPDATE parts
		SET code = ?, description = ?, stock_quantity = ?, buy_price = ?, sell_price = ?
		WHERE id = ?`, p.Code, p.Description, p.StockQuantity, p.BuyPrice, p.SellPrice, p.ID)
	if err != nil {
		return fmt.Errorf("update part %d: %w", p.ID, err)
	}
	s.log.Info("part updated", zap.Int64("id", p.ID))
	return nil
}

// DeletePart refuses with ErrInUse while the part is listed on an order.
func (s *Store) DeletePart(id int64) error {
	n, err := s.count(`SELECT COUNT(*) FROM order_parts WHERE part_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete part %d: %w", id, err)
	}
	if n > 0 {
		s.log.Warn("part is on service orders, not deleting", zap.Int64("id", id), zap.Int("orders", n))
		return fmt.Errorf("delete part %d: %w", id, ErrInUse)
	}
	if err := s.execOne(`DELETE FROM parts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete part %d: %w", id, err)
	}
	s.log.Info("part deleted", zap.Int64("id", id))
	return nil
}

// AdjustStock adds delta (negative to take out) to a part's stock and
// returns the new quantity. Stock never goes below zero.
func (s *Store) AdjustStock(id int64, delta int) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("adjust stock %d: %w", id, err)
	}
	defer tx.Rollback()

	var qty int
	err = tx.QueryRow(`SELECT COALESCE(stock_quantity, 0) FROM parts WHERE id = ?`, id).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("part %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("adjust stock %d: %w", id, err)
	}
	if qty+delta < 0 {
		s.log.Warn("insufficient stock", zap.Int64("part", id), zap.Int("have", qty), zap.Int("delta", delta))
		return qty, fmt.Errorf("part %d has %d: %w", id, qty, ErrInsufficientStock)
	}
	qty += delta
	if _, err := tx.Exec(`UPDATE parts SET stock_quantity = ? WHERE id = ?`, qty, id); err != nil {
		return 0, fmt.Errorf("adjust stock %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("adjust stock %d: %w", id, err)
	}
	return qty, nil
}
