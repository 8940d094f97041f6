// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"storyboarder/internal/apperr"
)

// PostgreSQL error codes the stores translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// typeMap converts Postgres arrays for database/sql, which has no native
// support for them.
var typeMap = pgtype.NewMap()

// conflictOr translates unique and foreign-key violations into conflict
// errors and wraps anything else with op.
func conflictOr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Conflict(op+": already exists", err)
		case pgForeignKeyViolation:
			return apperr.Conflict(op+": referenced record does not exist", err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nonNil returns an empty slice for nil so arrays are stored as '{}'.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
