// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Template is a reusable briefing layout: an ordered list of section names
// the LLM is asked to cover. At most one template is the default; the
// database enforces this with a partial unique index.
type Template struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Sections  []string  `json:"sections"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultSections is used when no template exists yet.
var DefaultSections = []string{
	"Objetivo",
	"Tono",
	"Propuesta de valor",
	"Hook",
	"Descripción",
	"Call to action",
	"Escenas",
}
