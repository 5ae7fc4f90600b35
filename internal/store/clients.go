package store

import (
	"database/sql"
	"errors"
	"fmt"

	"AutoCenter/internal/state"

	"go.uber.org/zap"
)

const clientColumns = `id, name, document, COALESCE(address, ''), COALESCE(phone, ''),
	COALESCE(email, ''), COALESCE(created_at, '')`

func scanClient(row interface{ Scan(...any) error }) (state.Client, error) {
	var c state.Client
	err := row.Scan(&c.ID, &c.Name, &c.Document, &c.Address, &c.Phone, &c.Email, &c.CreatedAt)
	return c, err
}

func (s *Store) queryClients(query string, args ...any) ([]state.Client, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []state.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListClients returns every client ordered by name.
func (s *Store) ListClients() ([]state.Client, error) {
	clients, err := s.queryClients(`SELECT ` + clientColumns + ` FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// SearchClients matches term against name, document and email.
func (s *Store) SearchClients(term string) ([]state.Client, error) {
	p := likePattern(term)
	clients, err := s.queryClients(`SELECT `+clientColumns+` FROM clients
		WHERE name LIKE ? OR document LIKE ? OR email LIKE ?
		ORDER BY name`, p, p, p)
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	return clients, nil
}

func (s *Store) GetClient(id int64) (state.Client, error) {
	c, err := scanClient(s.db.QueryRow(`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("client %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("get client %d: %w", id, err)
	}
	return c, nil
}

func (s *Store) AddClient(c state.Client) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	res, err := s.db.Exec(`INSERT INTO clients (name, document, address, phone, email, created_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		c.Name, c.Document, c.Address, c.Phone, c.Email)
	if err != nil {
		return 0, fmt.Errorf("add client: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add client: %w", err)
	}
	s.log.Info("client added", zap.Int64("id", id))
	return id, nil
}

func (s *Store) UpdateClient(c state.Client) error {
	if err := c.Validate(); err != nil {
		return err
	}
	err := s.execOne(`UPDATE clients SET name = ?, document = ?, address = ?, phone = ?, email = ?
		WHERE id = ?`, c.Name, c.Document, c.Address, c.Phone, c.Email, c.ID)
	if err != nil {
		return fmt.Errorf("update client %d: %w", c.ID, err)
	}
	s.log.Info("client updated", zap.Int64("id", c.ID))
	return nil
}

// DeleteClient refuses with ErrInUse while the client still owns vehicles.
func (s *Store) DeleteClient(id int64) error {
	n, err := s.count(`SELECT COUNT(*) FROM vehicles WHERE client_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete client %d: %w", id, err)
	}
	if n > 0 {
		s.log.Warn("client has vehicles, not deleting", zap.Int64("id", id), zap.Int("vehicles", n))
		return fmt.Errorf("delete client %d: %w", id, ErrInUse)
	}
	if err := s.execOne(`DELETE FROM clients WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete client %d: %w", id, err)
	}
	s.log.Info("client deleted", zap.Int64("id", id))
	return nil
}
