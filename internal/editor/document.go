// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor converts structured storyboard content to and from the JSON
// document model of the browser's rich-text editor. Each content field is
// one paragraph of the form "<Label>: <value>".
package editor

import "strings"

// Node types produced and understood by the transcoder.
const (
	TypeDoc       = "doc"
	TypeParagraph = "paragraph"
	TypeText      = "text"
	TypeHardBreak = "hardBreak"
)

// Document is the root node of an editor document.
type Document struct {
	Type    string `json:"type"`
	Content []Node `json:"content"`
}

// Node is a block or inline node. Attrs and Marks are carried through
// untouched so formatting applied in the browser survives a save.
type Node struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Content []Node         `json:"content,omitempty"`
}

// Mark is an inline formatting mark such as bold or italic.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// NewParagraph returns a paragraph holding text. An empty string yields an
// empty paragraph, since the editor rejects empty text nodes.
func NewParagraph(text string) Node {
	p := Node{Type: TypeParagraph}
	if text != "" {
		p.Content = []Node{{Type: TypeText, Text: text}}
	}
	return p
}

// Paragraphs returns the text of every paragraph in document order,
// including paragraphs nested inside lists or blockquotes.
func Paragraphs(doc Document) []string {
	var out []string
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if n.Type == TypeParagraph {
				out = append(out, inlineText(n.Content))
				continue
			}
			walk(n.Content)
		}
	}
	walk(doc.Content)
	return out
}

// inlineText concatenates the text children of a paragraph.
func inlineText(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.Type {
		case TypeText:
			b.WriteString(n.Text)
		case TypeHardBreak:
			b.WriteByte('\n')
		default:
			b.WriteString(inlineText(n.Content))
		}
	}
	return b.String()
}
