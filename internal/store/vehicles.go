package store

import (
	"database/sql"
	"errors"
	"fmt"

	"AutoCenter/internal/state"

	"go.uber.org/zap"
)

const vehicleSelect = `SELECT v.id, v.plate, v.brand, v.model, COALESCE(v.year, 0), COALESCE(v.color, ''),
	COALESCE(v.client_id, 0), COALESCE(v.brand_code, ''), COALESCE(v.model_code, ''), COALESCE(c.name, '')
	FROM vehicles v
	LEFT JOIN clients c ON v.client_id = c.id`

func scanVehicle(row interface{ Scan(...any) error }) (state.Vehicle, error) {
	var v state.Vehicle
	err := row.Scan(&v.ID, &v.Plate, &v.Brand, &v.Model, &v.Year, &v.Color,
		&v.ClientID, &v.BrandCode, &v.ModelCode, &v.ClientName)
	return v, err
}

func (s *Store) queryVehicles(query string, args ...any) ([]state.Vehicle, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []state.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListVehicles returns every vehicle with its owner's name, by plate.
func (s *Store) ListVehicles() ([]state.Vehicle, error) {
	vs, err := s.queryVehicles(vehicleSelect + ` ORDER BY v.plate`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vs, nil
}

func (s *Store) SearchVehicles(term string) ([]state.Vehicle, error) {
	p := likePattern(term)
	vs, err := s.queryVehicles(vehicleSelect+`
		WHERE v.plate LIKE ? OR v.brand LIKE ? OR v.model LIKE ?
		ORDER BY v.plate`, p, p, p)
	if err != nil {
		return nil, fmt.Errorf("search vehicles: %w", err)
	}
	return vs, nil
}

func (s *Store) VehiclesByClient(clientID int64) ([]state.Vehicle, error) {
	vs, err := s.queryVehicles(vehicleSelect+` WHERE v.client_id = ? ORDER BY v.plate`, clientID)
	if err != nil {
		return nil, fmt.Errorf("vehicles of client %d: %w", clientID, err)
	}
	return vs, nil
}

func (s *Store) GetVehicle(id int64) (state.Vehicle, error) {
	v, err := scanVehicle(s.db.QueryRow(vehicleSelect+` WHERE v.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return v, fmt.Errorf("vehicle %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return v, fmt.Errorf("get vehicle %d: %w", id, err)
	}
	return v, nil
}

func (s *Store) AddVehicle(v state.Vehicle) (int64, error) {
	if err := v.Validate(); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`INSERT INTO vehicles (plate, brand, model, year, color, client_id, brand_code, model_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Plate, v.Brand, v.Model, v.Year, v.Color, nullID(v.ClientID), nullString(v.BrandCode), nullString(v.ModelCode))
	if err != nil {
		return 0, fmt.Errorf("add vehicle: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add vehicle: %w", err)
	}
	s.log.Info("vehicle added", zap.Int64("id", id), zap.String("plate", v.Plate))
	return id, nil
}

func (s *Store) UpdateVehicle(v state.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	err := s.execOne(`UPDATE vehicles
		SET plate = ?, brand = ?, model = ?, year = ?, color = ?, client_id = ?, brand_code = ?, model_code = ?
		WHERE id = ?`,
		v.Plate, v.Brand, v.Model, v.Year, v.Color, nullID(v.ClientID), nullString(v.BrandCode), nullString(v.ModelCode), v.ID)
	if err != nil {
		return fmt.Errorf("update vehicle %d: %w", v.ID, err)
	}
	s.log.Info("vehicle updated", zap.Int64("id", v.ID))
	return nil
}

// DeleteVehicle refuses with ErrInUse while a service order refers to it.
func (s *Store) DeleteVehicle(id int64) error {
	n, err := s.count(`SELECT COUNT(*) FROM service_orders WHERE vehicle_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	if n > 0 {
		s.log.Warn("vehicle is on service orders, not deleting", zap.Int64("id", id), zap.Int("orders", n))
		return fmt.Errorf("delete vehicle %d: %w", id, ErrInUse)
	}
	if err := s.execOne(`DELETE FROM vehicles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete vehicle %d: %w", id, err)
	}
	s.log.Info("vehicle deleted", zap.Int64("id", id))
	return nil
}
