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

// TemplateStore handles all storyboard template database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, name, sections, is_default, created_at, updated_at`

func scanTemplate(row interface{ Scan(...any) error }, t *models.Template) error {
	var sections []string
	if err := row.Scan(&t.ID, &t.Name, typeMap.SQLScanner(&sections), &t.IsDefault, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}
	t.Sections = nonNil(sections)
	return nil
}

// List returns all templates, the default first.
func (s *TemplateStore) List() ([]models.Template, error) {
	rows, err := s.db.Query(`SELECT ` + templateColumns + ` FROM templates ORDER BY is_default DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var t models.Template
		if err := scanTemplate(rows, &t); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template by its UUID. Returns nil if not found.
func (s *TemplateStore) FindByID(id uuid.UUID) (*models.Template, error) {
	t := &models.Template{}
	err := scanTemplate(s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE id = $1`, id), t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// FindDefault returns the default template. Returns nil if none is marked.
func (s *TemplateStore) FindDefault() (*models.Template, error) {
	t := &models.Template{}
	err := scanTemplate(s.db.QueryRow(`SELECT `+templateColumns+` FROM templates WHERE is_default LIMIT 1`), t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find default template: %w", err)
	}
	return t, nil
}

// Create inserts a new, non-default template. Use SetDefault to promote it.
func (s *TemplateStore) Create(t *models.Template) (*models.Template, error) {
	result := &models.Template{}
	err := scanTemplate(s.db.QueryRow(`
		INSERT INTO templates (name, sections)
		VALUES ($1, $2)
		RETURNING `+templateColumns,
		t.Name, nonNil(t.Sections),
	), result)
	if err != nil {
		return nil, conflictOr("create template", err)
	}
	return result, nil
}

// Update modifies a template's name and sections. The default flag is only
// changed through SetDefault.
func (s *TemplateStore) Update(t *models.Template) error {
	result, err := s.db.Exec(`
		UPDATE templates SET name = $1, sections = $2, updated_at = NOW()
		WHERE id = $3
	`, t.Name, nonNil(t.Sections), t.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetDefault marks the given template as the default and clears the flag on
// every other row inside one transaction. Returns sql.ErrNoRows if the
// template does not exist.
func (s *TemplateStore) SetDefault(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Serializes concurrent SetDefault calls.
	if _, err := tx.Exec(`LOCK TABLE templates IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock templates: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM templates WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check template: %w", err)
	}
	if !exists {
		return sql.ErrNoRows
	}

	// The partial unique index is checked row by row, so the old default is
	// cleared before the new one is set.
	if _, err := tx.Exec(`
		UPDATE templates SET is_default = FALSE, updated_at = NOW()
		WHERE is_default AND id <> $1
	`, id); err != nil {
		return fmt.Errorf("clear default template: %w", err)
	}
	if _, err := tx.Exec(`
		UPDATE templates SET is_default = TRUE, updated_at = NOW() WHERE id = $1
	`, id); err != nil {
		return fmt.Errorf("set default template: %w", err)
	}

	return tx.Commit()
}

// Delete removes a template. Storyboards that used it keep their content.
func (s *TemplateStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// Count returns the total number of templates.
func (s *TemplateStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM templates`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return count, nil
}
