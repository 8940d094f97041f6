// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"strings"
	"testing"
)

func TestPreview_LabelsAndGroups(t *testing.T) {
	html, err := DefaultCodec.Preview(nikeContent())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	for _, want := range []string{
		"<strong>Hook:</strong>",
		"<strong>Escena 1 Script:</strong>",
		"<strong>Escena 4 Sound:</strong>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("preview missing %q", want)
		}
	}
	if n := strings.Count(html, "<hr"); n != 4 {
		t.Errorf("thematic breaks = %d, want 4 (one before each scene)", n)
	}
}
