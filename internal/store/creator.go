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

// CreatorStore handles all creator-related database operations.
type CreatorStore struct {
	db *sql.DB
}

// NewCreatorStore creates a new CreatorStore with the given database connection.
func NewCreatorStore(db *sql.DB) *CreatorStore {
	return &CreatorStore{db: db}
}

// CreatorFilter narrows a creator listing. Zero values mean "no filter".
type CreatorFilter struct {
	Status   models.CreatorStatus
	Platform string
	Country  string
	Search   string // case-insensitive match on name or email
	Sort     string // "name" (default), "newest", "content"
}

const creatorColumns = `id, name, first_name, last_name, email, representative_email,
	agency_email, billing_email, agency_name, country, business_type, status, platform,
	category, onboarding_completed, onboarding_completed_at, contract_signed,
	contract_signed_at, responsible_user_id, content_count, created_at, updated_at`

func scanCreator(row interface{ Scan(...any) error }, c *models.Creator) error {
	return row.Scan(
		&c.ID, &c.Name, &c.FirstName, &c.LastName, &c.Email, &c.RepresentativeEmail,
		&c.AgencyEmail, &c.BillingEmail, &c.AgencyName, &c.Country, &c.BusinessType,
		&c.Status, &c.Platform, &c.Category, &c.OnboardingCompleted, &c.OnboardingCompletedAt,
		&c.ContractSigned, &c.ContractSignedAt, &c.ResponsibleUserID, &c.ContentCount,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

// List returns creators matching the filter.
func (s *CreatorStore) List(f CreatorFilter) ([]models.Creator, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.Platform != "" {
		add("platform = $%d", f.Platform)
	}
	if f.Country != "" {
		add("country = $%d", f.Country)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		args = append(args, "%"+q+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", n, n))
	}

	query := `SELECT ` + creatorColumns + ` FROM creators`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	switch f.Sort {
	case "newest":
		query += ` ORDER BY created_at DESC`
	case "content":
		query += ` ORDER BY content_count DESC, name`
	default:
		query += ` ORDER BY name`
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list creators: %w", err)
	}
	defer rows.Close()

	var creators []models.Creator
	for rows.Next() {
		var c models.Creator
		if err := scanCreator(rows, &c); err != nil {
			return nil, fmt.Errorf("scan creator: %w", err)
		}
		creators = append(creators, c)
	}
	return creators, rows.Err()
}

// FindByID retrieves a creator by its UUID. Returns nil if not found.
func (s *CreatorStore) FindByID(id uuid.UUID) (*models.Creator, error) {
	c := &models.Creator{}
	err := scanCreator(s.db.QueryRow(`SELECT `+creatorColumns+` FROM creators WHERE id = $1`, id), c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find creator by id: %w", err)
	}
	return c, nil
}

// Create inserts a new creator. Status defaults to prospect.
func (s *CreatorStore) Create(c *models.Creator) (*models.Creator, error) {
	if c.Status == "" {
		c.Status = models.CreatorStatusProspect
	}
	result := &models.Creator{}
	err := scanCreator(s.db.QueryRow(`
		INSERT INTO creators (name, first_name, last_name, email, representative_email,
			agency_email, billing_email, agency_name, country, business_type, status,
			platform, category, onboarding_completed, onboarding_completed_at,
			contract_signed, contract_signed_at, responsible_user_id, content_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			CASE WHEN $14 THEN NOW() END, $15, CASE WHEN $15 THEN NOW() END, $16, $17)
		RETURNING `+creatorColumns,
		c.Name, c.FirstName, c.LastName, c.Email, c.RepresentativeEmail,
		c.AgencyEmail, c.BillingEmail, c.AgencyName, c.Country, c.BusinessType, string(c.Status),
		c.Platform, c.Category, c.OnboardingCompleted, c.ContractSigned,
		c.ResponsibleUserID, c.ContentCount,
	), result)
	if err != nil {
		return nil, conflictOr("create creator", err)
	}
	return result, nil
}

// Update modifies an existing creator. The *_at timestamps are set the first
// time a flag turns true and cleared when it turns false.
func (s *CreatorStore) Update(c *models.Creator) error {
	result, err := s.db.Exec(`
		UPDATE creators SET
			name = $1, first_name = $2, last_name = $3, email = $4,
			representative_email = $5, agency_email = $6, billing_email = $7,
			agency_name = $8, country = $9, business_type = $10, status = $11,
			platform = $12, category = $13,
			onboarding_completed = $14,
			onboarding_completed_at = CASE WHEN $14 THEN COALESCE(onboarding_completed_at, NOW()) END,
			contract_signed = $15,
			contract_signed_at = CASE WHEN $15 THEN COALESCE(contract_signed_at, NOW()) END,
			responsible_user_id = $16, content_count = $17, updated_at = NOW()
		WHERE id = $18
	`, c.Name, c.FirstName, c.LastName, c.Email,
		c.RepresentativeEmail, c.AgencyEmail, c.BillingEmail,
		c.AgencyName, c.Country, c.BusinessType, string(c.Status),
		c.Platform, c.Category, c.OnboardingCompleted, c.ContractSigned,
		c.ResponsibleUserID, c.ContentCount, c.ID)
	if err != nil {
		return conflictOr("update creator", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a creator.
func (s *CreatorStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM creators WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete creator: %w", err)
	}
	return nil
}

// Count returns the total number of creators.
func (s *CreatorStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM creators`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count creators: %w", err)
	}
	return count, nil
}
