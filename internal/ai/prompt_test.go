// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"strings"
	"testing"

	"storyboarder/internal/apperr"
)

func TestBuildPrompt_Nike(t *testing.T) {
	brief := Brief{
		Client:    "Nike",
		Objective: "Aumentar descargas",
		Target:    "18-24 fitness",
		Message:   "Zapatillas perfectas",
		Platforms: []string{"tiktok", "instagram"},
	}
	sections := []string{"Hook", "Escenas"}

	got := BuildPrompt(brief, sections)
	for _, want := range []string{
		"Cliente: Nike\n",
		"Objetivo: Aumentar descargas\n",
		"Público objetivo: 18-24 fitness\n",
		"Mensaje clave: Zapatillas perfectas\n",
		"Plataformas: tiktok, instagram\n",
		"1. Hook\n2. Escenas\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Tono:") || strings.Contains(got, "Notas:") {
		t.Error("blank fields should be omitted")
	}

	if again := BuildPrompt(brief, sections); again != got {
		t.Error("BuildPrompt should be deterministic")
	}
}

func TestBuildPrompt_SectionOrder(t *testing.T) {
	got := BuildPrompt(Brief{Objective: "o", Message: "m"}, []string{"B", "A"})
	if strings.Index(got, "1. B") > strings.Index(got, "2. A") {
		t.Errorf("sections out of order:\n%s", got)
	}
}

func TestBriefValidate(t *testing.T) {
	if err := (Brief{Objective: "o", Message: "m"}).Validate(); err != nil {
		t.Errorf("valid brief: %v", err)
	}
	for _, b := range []Brief{{Message: "m"}, {Objective: "o", Message: "  "}} {
		if err := b.Validate(); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Validate(%+v) = %v, want validation error", b, err)
		}
	}
}
