// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown renders storyboard previews to HTML using goldmark.
// Generated text comes from an LLM, so raw HTML in the source is escaped.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
)

// Entry is one labelled value in a preview.
type Entry struct {
	Label string
	Value string
}

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Preview renders groups of labelled values as HTML. Each group becomes a
// section separated by a thematic break; values keep their own line breaks.
func Preview(groups [][]Entry) (string, error) {
	var sb strings.Builder
	for i, group := range groups {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		for _, e := range group {
			sb.WriteString("**")
			sb.WriteString(escape(e.Label))
			sb.WriteString(":** ")
			sb.WriteString(strings.ReplaceAll(strings.TrimSpace(e.Value), "\n", "  \n"))
			sb.WriteString("\n\n")
		}
	}
	return ToHTML(sb.String())
}

var labelEscaper = strings.NewReplacer("*", "\\*", "_", "\\_", "`", "\\`")

func escape(s string) string {
	return labelEscaper.Replace(s)
}
