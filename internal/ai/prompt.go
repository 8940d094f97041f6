// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"fmt"
	"strings"

	"storyboarder/internal/apperr"
	"storyboarder/internal/models"
)

// Brief is the briefing form a user fills in before generating a storyboard.
type Brief struct {
	Client    string   `json:"client"`
	Objective string   `json:"objective"`
	Target    string   `json:"target"`
	Message   string   `json:"message"`
	Platforms []string `json:"platforms"`
	Tone      string   `json:"tone"`
	Notes     string   `json:"notes"`
}

// Validate reports the first missing required field.
func (b Brief) Validate() error {
	switch {
	case strings.TrimSpace(b.Objective) == "":
		return apperr.Validation("Objective is required.")
	case strings.TrimSpace(b.Message) == "":
		return apperr.Validation("Message is required.")
	}
	return nil
}

// Text joins the free-text fields of the brief for moderation.
func (b Brief) Text() string {
	var parts []string
	for _, f := range []string{b.Client, b.Objective, b.Target, b.Message, b.Tone, b.Notes} {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, "\n")
}

// systemPrompt constrains the model to a single JSON object with exactly the
// content keys.
var systemPrompt = "Eres un estratega creativo que escribe storyboards para vídeos cortos de marca. " +
	"Responde ÚNICAMENTE con un objeto JSON válido, sin texto adicional ni bloques de código. " +
	"El objeto debe tener exactamente estas claves de tipo string: " +
	strings.Join(models.FieldKeys, ", ") + "."

// BuildPrompt renders the user prompt for a brief. sections is the ordered
// section list of the chosen content template; the model is asked to cover
// them in that order. The output depends only on its inputs.
func BuildPrompt(b Brief, sections []string) string {
	var sb strings.Builder

	sb.WriteString("Crea un storyboard para un vídeo corto con la siguiente información.\n\n")
	writeLine(&sb, "Cliente", b.Client)
	writeLine(&sb, "Objetivo", b.Objective)
	writeLine(&sb, "Público objetivo", b.Target)
	writeLine(&sb, "Mensaje clave", b.Message)
	if len(b.Platforms) > 0 {
		writeLine(&sb, "Plataformas", strings.Join(b.Platforms, ", "))
	}
	writeLine(&sb, "Tono", b.Tone)
	writeLine(&sb, "Notas", b.Notes)

	if len(sections) > 0 {
		sb.WriteString("\nEstructura del contenido, en este orden:\n")
		for i, s := range sections {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
		}
	}

	fmt.Fprintf(&sb, "\nIncluye %d escenas; para cada una describe el guion (script), "+
		"lo que se ve (visual) y el sonido (sound).\n", models.SceneCount)
	sb.WriteString("Escribe en español salvo que el mensaje clave esté en otro idioma.")

	return sb.String()
}

// writeLine adds "Label: value" when value is not blank.
func writeLine(sb *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteByte('\n')
}
