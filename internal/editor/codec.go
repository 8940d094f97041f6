// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"storyboarder/internal/models"
)

// Field binds a paragraph label to a content field. Aliases are extra labels
// accepted when decoding; they are consulted only if Label was not seen.
type Field struct {
	Label   string
	Key     string
	Aliases []string
}

// Codec is an ordered set of labelled fields split into visual groups. A
// blank paragraph separates consecutive groups.
type Codec struct {
	groups [][]Field
}

// linePattern splits a paragraph at its first colon. The single space after
// the colon belongs to the separator, not the value.
var linePattern = regexp.MustCompile(`(?s)^(.+?): ?(.*)$`)

var generalFields = []Field{
	{Label: "Objetivo", Key: models.FieldObjective},
	{Label: "Tono", Key: models.FieldTone},
	{Label: "Propuesta de valor 1", Key: models.FieldValueProp1},
	{Label: "Propuesta de valor 2", Key: models.FieldValueProp2},
	{Label: "Hook", Key: models.FieldHook},
	{Label: "Descripción", Key: models.FieldDescription},
	{Label: "Call to action (CTA)", Key: models.FieldCTA},
}

var sceneParts = []string{"Script", "Visual", "Sound"}

// DefaultCodec labels every scene field with its scene number
// ("Escena 2 Visual"), so every field has a distinct label and
// Decode(Encode(c)) == c holds for all content. The short labels used by
// older documents are accepted as aliases.
var DefaultCodec = buildCodec(func(scene int, label string) Field {
	return Field{
		Label:   "Escena " + strconv.Itoa(scene) + " " + label,
		Aliases: []string{label},
	}
})

// LegacyCodec writes the short scene labels ("Script", "Visual", "Sound")
// that older documents use. The labels repeat for every scene, so decoding
// assigns the last scene's value to all four scenes.
var LegacyCodec = buildCodec(func(_ int, label string) Field {
	return Field{Label: label}
})

func buildCodec(sceneField func(scene int, label string) Field) *Codec {
	c := &Codec{groups: [][]Field{generalFields}}
	for scene := 1; scene <= models.SceneCount; scene++ {
		group := make([]Field, 0, len(sceneParts))
		for _, part := range sceneParts {
			f := sceneField(scene, part)
			f.Key = models.SceneKey(scene, part)
			group = append(group, f)
		}
		c.groups = append(c.groups, group)
	}
	return c
}

// Fields returns the codec's fields in document order.
func (c *Codec) Fields() []Field {
	var out []Field
	for _, g := range c.groups {
		out = append(out, g...)
	}
	return out
}

// Label returns the label used for key, or "" if the key is unknown.
func (c *Codec) Label(key string) string {
	for _, g := range c.groups {
		for _, f := range g {
			if f.Key == key {
				return f.Label
			}
		}
	}
	return ""
}

// Encode renders content as an editor document: one paragraph per field in
// fixed order, including fields whose value is empty.
func (c *Codec) Encode(content *models.StructuredContent) Document {
	doc := Document{Type: TypeDoc}
	for i, g := range c.groups {
		if i > 0 {
			doc.Content = append(doc.Content, NewParagraph(""))
		}
		for _, f := range g {
			doc.Content = append(doc.Content, NewParagraph(f.Label+": "+content.Get(f.Key)))
		}
	}
	return doc
}

// Decode reads content back from an editor document. Paragraphs that are
// not "<label>: <value>" lines are ignored, as are unknown labels. When a
// label appears more than once the last occurrence wins. Fields whose label
// never appears are left empty.
func (c *Codec) Decode(doc Document) *models.StructuredContent {
	seen := make(map[string]string)
	for _, text := range Paragraphs(doc) {
		m := linePattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		seen[normalizeLabel(m[1])] = m[2]
	}

	content := &models.StructuredContent{}
	for _, f := range c.Fields() {
		if v, ok := lookup(seen, f); ok {
			content.Set(f.Key, v)
		}
	}
	return content
}

func lookup(seen map[string]string, f Field) (string, bool) {
	if v, ok := seen[normalizeLabel(f.Label)]; ok {
		return v, true
	}
	for _, alias := range f.Aliases {
		if v, ok := seen[normalizeLabel(alias)]; ok {
			return v, true
		}
	}
	return "", false
}

// normalizeLabel lower-cases a label and drops whitespace and parentheses,
// so "Call to action (CTA)" and "calltoaction cta" compare equal.
func normalizeLabel(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '(' || r == ')' {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// ChangedFields lists the keys whose values differ between a and b, in
// field order.
func ChangedFields(a, b *models.StructuredContent) []string {
	var changed []string
	for _, key := range models.FieldKeys {
		if a.Get(key) != b.Get(key) {
			changed = append(changed, key)
		}
	}
	return changed
}
