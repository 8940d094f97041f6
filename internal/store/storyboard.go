// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"storyboarder/internal/models"
)

// StoryboardStore handles all storyboard-related database operations.
type StoryboardStore struct {
	db *sql.DB
}

// NewStoryboardStore creates a new StoryboardStore with the given database connection.
func NewStoryboardStore(db *sql.DB) *StoryboardStore {
	return &StoryboardStore{db: db}
}

// storyboardSelect joins the client and creator names so listings can show
// them without a second round trip.
const storyboardSelect = `
	SELECT s.id, s.title, s.client_id, s.creator_id, s.template_id, s.status,
		s.original_content, s.platforms, s.assets, s.presentation_id, s.presentation_url,
		s.created_by, s.created_at, s.updated_at, cl.name, cr.name
	FROM storyboards s
	LEFT JOIN clients cl ON cl.id = s.client_id
	LEFT JOIN creators cr ON cr.id = s.creator_id`

func scanStoryboard(row interface{ Scan(...any) error }, sb *models.Storyboard) error {
	var (
		platforms []string
		assets    []byte
	)
	err := row.Scan(
		&sb.ID, &sb.Title, &sb.ClientID, &sb.CreatorID, &sb.TemplateID, &sb.Status,
		&sb.OriginalContent, typeMap.SQLScanner(&platforms), &assets, &sb.PresentationID,
		&sb.PresentationURL, &sb.CreatedBy, &sb.CreatedAt, &sb.UpdatedAt,
		&sb.ClientName, &sb.CreatorName,
	)
	if err != nil {
		return err
	}
	sb.Platforms = nonNil(platforms)
	sb.Assets = []models.Asset{}
	if len(assets) > 0 {
		if err := json.Unmarshal(assets, &sb.Assets); err != nil {
			return fmt.Errorf("decode assets: %w", err)
		}
	}
	return nil
}

func (s *StoryboardStore) query(op, query string, args ...any) ([]models.Storyboard, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var boards []models.Storyboard
	for rows.Next() {
		var sb models.Storyboard
		if err := scanStoryboard(rows, &sb); err != nil {
			return nil, fmt.Errorf("scan storyboard: %w", err)
		}
		boards = append(boards, sb)
	}
	return boards, rows.Err()
}

// List returns storyboards, newest first, with pagination.
func (s *StoryboardStore) List(limit, offset int) ([]models.Storyboard, error) {
	return s.query("list storyboards",
		storyboardSelect+` ORDER BY s.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByClient returns every storyboard for one client, newest first.
func (s *StoryboardStore) ListByClient(clientID uuid.UUID) ([]models.Storyboard, error) {
	return s.query("list storyboards by client",
		storyboardSelect+` WHERE s.client_id = $1 ORDER BY s.created_at DESC`, clientID)
}

// FindByID retrieves a storyboard by its UUID. Returns nil if not found.
func (s *StoryboardStore) FindByID(id uuid.UUID) (*models.Storyboard, error) {
	sb := &models.Storyboard{}
	err := scanStoryboard(s.db.QueryRow(storyboardSelect+` WHERE s.id = $1`, id), sb)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find storyboard by id: %w", err)
	}
	return sb, nil
}

// Create inserts a new storyboard row in draft status and returns it with
// the joined names filled in.
func (s *StoryboardStore) Create(sb *models.Storyboard) (*models.Storyboard, error) {
	if sb.Status == "" {
		sb.Status = models.StoryboardStatusDraft
	}
	assets, err := json.Marshal(nonNilAssets(sb.Assets))
	if err != nil {
		return nil, fmt.Errorf("encode assets: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRow(`
		INSERT INTO storyboards (title, client_id, creator_id, template_id, status,
			original_content, platforms, assets, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, sb.Title, sb.ClientID, sb.CreatorID, sb.TemplateID, string(sb.Status),
		sb.OriginalContent, nonNil(sb.Platforms), assets, sb.CreatedBy,
	).Scan(&id)
	if err != nil {
		return nil, conflictOr("create storyboard", err)
	}
	return s.FindByID(id)
}

// Update modifies a storyboard's editable metadata.
func (s *StoryboardStore) Update(sb *models.Storyboard) error {
	result, err := s.db.Exec(`
		UPDATE storyboards SET
			title = $1, client_id = $2, creator_id = $3, template_id = $4,
			original_content = $5, platforms = $6, updated_at = NOW()
		WHERE id = $7
	`, sb.Title, sb.ClientID, sb.CreatorID, sb.TemplateID,
		sb.OriginalContent, nonNil(sb.Platforms), sb.ID)
	if err != nil {
		return conflictOr("update storyboard", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetPresentation records the generated deck and marks the storyboard as generated.
func (s *StoryboardStore) SetPresentation(id uuid.UUID, presentationID, url string) error {
	_, err := s.db.Exec(`
		UPDATE storyboards SET
			presentation_id = $1, presentation_url = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`, presentationID, url, string(models.StoryboardStatusGenerated), id)
	if err != nil {
		return fmt.Errorf("set storyboard presentation: %w", err)
	}
	return nil
}

// SetStatus changes the status of a storyboard.
func (s *StoryboardStore) SetStatus(id uuid.UUID, status models.StoryboardStatus) error {
	_, err := s.db.Exec(`UPDATE storyboards SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id)
	if err != nil {
		return fmt.Errorf("set storyboard status: %w", err)
	}
	return nil
}

// SetAssets replaces the asset list of a storyboard.
func (s *StoryboardStore) SetAssets(id uuid.UUID, assets []models.Asset) error {
	data, err := json.Marshal(nonNilAssets(assets))
	if err != nil {
		return fmt.Errorf("encode assets: %w", err)
	}
	_, err = s.db.Exec(`UPDATE storyboards SET assets = $1, updated_at = NOW() WHERE id = $2`, data, id)
	if err != nil {
		return fmt.Errorf("set storyboard assets: %w", err)
	}
	return nil
}

// Delete removes a storyboard. Its content row is removed by cascade.
func (s *StoryboardStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM storyboards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete storyboard: %w", err)
	}
	return nil
}

// Count returns the total number of storyboards.
func (s *StoryboardStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM storyboards`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count storyboards: %w", err)
	}
	return count, nil
}

func nonNilAssets(a []models.Asset) []models.Asset {
	if a == nil {
		return []models.Asset{}
	}
	return a
}
