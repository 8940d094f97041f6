// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for every storyboarder
// entity. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"storyboarder/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, display_name, picture_url, last_login_at, created_at`

func scanUser(row interface{ Scan(...any) error }, u *models.User) error {
	return row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PictureURL, &u.LastLoginAt, &u.CreatedAt)
}

// Upsert records a successful sign-in: it creates the user on first login
// and refreshes the profile and last_login_at afterwards. E-mails are
// compared case-insensitively.
func (s *UserStore) Upsert(email, displayName string, pictureURL *string) (*models.User, error) {
	u := &models.User{}
	err := scanUser(s.db.QueryRow(`
		INSERT INTO users (email, display_name, picture_url, last_login_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (email) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			picture_url = EXCLUDED.picture_url,
			last_login_at = NOW()
		RETURNING `+userColumns,
		strings.ToLower(strings.TrimSpace(email)), displayName, pictureURL,
	), u)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

// Count returns the number of users who ever signed in.
func (s *UserStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// RecentLogins returns up to limit users, latest sign-in first.
func (s *UserStore) RecentLogins(limit int) ([]models.User, error) {
	rows, err := s.db.Query(`
		SELECT `+userColumns+` FROM users
		WHERE last_login_at IS NOT NULL
		ORDER BY last_login_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent logins: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
