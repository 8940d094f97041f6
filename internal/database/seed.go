// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// seedTemplates are the briefing layouts created on an empty database.
// The first one becomes the default.
var seedTemplates = []struct {
	name     string
	sections []string
}{
	{"Storyboard estándar", []string{"Objetivo", "Tono", "Propuesta de valor", "Hook", "Descripción", "Call to action", "Escenas"}},
	{"Lanzamiento de producto", []string{"Objetivo", "Producto", "Beneficios", "Hook", "Demostración", "Call to action", "Escenas"}},
	{"Awareness de marca", []string{"Objetivo", "Valores de marca", "Tono", "Hook", "Historia", "Escenas"}},
}

// Seed populates an empty database with the starter briefing templates.
// It is a no-op once any template exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM templates").Scan(&count); err != nil {
		return fmt.Errorf("seed check templates: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for i, t := range seedTemplates {
		if _, err := tx.Exec(`
			INSERT INTO templates (name, sections, is_default)
			VALUES ($1, $2, $3)
		`, t.name, t.sections, i == 0); err != nil {
			return fmt.Errorf("seed insert template %q: %w", t.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with starter templates", "count", len(seedTemplates))
	return nil
}
