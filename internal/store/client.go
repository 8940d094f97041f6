// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"storyboarder/internal/models"
)

// ClientStore handles all client-related database operations.
type ClientStore struct {
	db *sql.DB
}

// NewClientStore creates a new ClientStore with the given database connection.
func NewClientStore(db *sql.DB) *ClientStore {
	return &ClientStore{db: db}
}

const clientColumns = `id, name, industry, contact_person, email, created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }, c *models.Client) error {
	return row.Scan(&c.ID, &c.Name, &c.Industry, &c.ContactPerson, &c.Email, &c.CreatedAt, &c.UpdatedAt)
}

// List returns all clients ordered by name.
func (s *ClientStore) List() ([]models.Client, error) {
	rows, err := s.db.Query(`SELECT ` + clientColumns + ` FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := scanClient(rows, &c); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// FindByID retrieves a client by its UUID. Returns nil if not found.
func (s *ClientStore) FindByID(id uuid.UUID) (*models.Client, error) {
	c := &models.Client{}
	err := scanClient(s.db.QueryRow(`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id), c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client by id: %w", err)
	}
	return c, nil
}

// Create inserts a new client. A duplicate name is reported as a conflict.
func (s *ClientStore) Create(c *models.Client) (*models.Client, error) {
	result := &models.Client{}
	err := scanClient(s.db.QueryRow(`
		INSERT INTO clients (name, industry, contact_person, email)
		VALUES ($1, $2, $3, $4)
		RETURNING `+clientColumns,
		c.Name, c.Industry, c.ContactPerson, c.Email,
	), result)
	if err != nil {
		return nil, conflictOr("create client", err)
	}
	return result, nil
}

// Update modifies an existing client. Returns sql.ErrNoRows if it does not exist.
func (s *ClientStore) Update(c *models.Client) error {
	result, err := s.db.Exec(`
		UPDATE clients SET
			name = $1, industry = $2, contact_person = $3, email = $4, updated_at = NOW()
		WHERE id = $5
	`, c.Name, c.Industry, c.ContactPerson, c.Email, c.ID)
	if err != nil {
		return conflictOr("update client", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a client. Storyboards keep their row with client_id unset.
func (s *ClientStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

// Count returns the total number of clients.
func (s *ClientStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM clients`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return count, nil
}
