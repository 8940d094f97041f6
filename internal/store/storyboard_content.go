// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"storyboarder/internal/models"
)

// StoryboardContentStore persists the structured content of a storyboard.
// There is at most one content row per storyboard.
type StoryboardContentStore struct {
	db *sql.DB
}

// NewStoryboardContentStore creates a new StoryboardContentStore with the given database connection.
func NewStoryboardContentStore(db *sql.DB) *StoryboardContentStore {
	return &StoryboardContentStore{db: db}
}

// contentColumns lists the content columns in models.FieldKeys order.
var contentColumns = func() []string {
	cols := make([]string, len(models.FieldKeys))
	for i, key := range models.FieldKeys {
		cols[i] = models.ColumnName(key)
	}
	return cols
}()

var (
	contentSelectSQL = `SELECT ` + strings.Join(contentColumns, ", ") +
		` FROM storyboard_content WHERE storyboard_id = $1`
	contentUpsertSQL = buildContentUpsert()
)

func buildContentUpsert() string {
	placeholders := make([]string, len(contentColumns))
	updates := make([]string, len(contentColumns))
	for i, col := range contentColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		updates[i] = col + " = EXCLUDED." + col
	}
	return `INSERT INTO storyboard_content (storyboard_id, ` + strings.Join(contentColumns, ", ") + `)
		VALUES ($1, ` + strings.Join(placeholders, ", ") + `)
		ON CONFLICT (storyboard_id) DO UPDATE SET ` + strings.Join(updates, ", ") + `, updated_at = NOW()`
}

// Upsert writes the content for a storyboard, replacing any previous row.
func (s *StoryboardContentStore) Upsert(storyboardID uuid.UUID, c *models.StructuredContent) error {
	args := make([]any, 0, len(models.FieldKeys)+1)
	args = append(args, storyboardID)
	for _, key := range models.FieldKeys {
		args = append(args, c.Get(key))
	}
	if _, err := s.db.Exec(contentUpsertSQL, args...); err != nil {
		return conflictOr("upsert storyboard content", err)
	}
	return nil
}

// FindByStoryboardID returns the content of a storyboard. Returns nil if the
// storyboard has no content row.
func (s *StoryboardContentStore) FindByStoryboardID(storyboardID uuid.UUID) (*models.StructuredContent, error) {
	values := make([]string, len(models.FieldKeys))
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}

	err := s.db.QueryRow(contentSelectSQL, storyboardID).Scan(dest...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find storyboard content: %w", err)
	}

	c := &models.StructuredContent{}
	for i, key := range models.FieldKeys {
		c.Set(key, values[i])
	}
	return c, nil
}
