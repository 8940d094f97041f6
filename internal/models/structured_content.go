// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"unicode"
)

// SceneCount is the fixed number of scenes in a storyboard.
const SceneCount = 4

// StructuredContent is the creative content of a storyboard: a flat set of
// fixed string fields. JSON keys are the compact form the LLM produces;
// ColumnName gives the word-separated form used by the storyboard_content
// table.
type StructuredContent struct {
	Objective    string `json:"objective"`
	Tone         string `json:"tone"`
	ValueProp1   string `json:"valueProp1"`
	ValueProp2   string `json:"valueProp2"`
	Hook         string `json:"hook"`
	Description  string `json:"description"`
	CTA          string `json:"cta"`
	Scene1Script string `json:"scene1Script"`
	Scene1Visual string `json:"scene1Visual"`
	Scene1Sound  string `json:"scene1Sound"`
	Scene2Script string `json:"scene2Script"`
	Scene2Visual string `json:"scene2Visual"`
	Scene2Sound  string `json:"scene2Sound"`
	Scene3Script string `json:"scene3Script"`
	Scene3Visual string `json:"scene3Visual"`
	Scene3Sound  string `json:"scene3Sound"`
	Scene4Script string `json:"scene4Script"`
	Scene4Visual string `json:"scene4Visual"`
	Scene4Sound  string `json:"scene4Sound"`
}

// Field keys, in display order.
const (
	FieldObjective    = "objective"
	FieldTone         = "tone"
	FieldValueProp1   = "valueProp1"
	FieldValueProp2   = "valueProp2"
	FieldHook         = "hook"
	FieldDescription  = "description"
	FieldCTA          = "cta"
	FieldScene1Script = "scene1Script"
	FieldScene1Visual = "scene1Visual"
	FieldScene1Sound  = "scene1Sound"
	FieldScene2Script = "scene2Script"
	FieldScene2Visual = "scene2Visual"
	FieldScene2Sound  = "scene2Sound"
	FieldScene3Script = "scene3Script"
	FieldScene3Visual = "scene3Visual"
	FieldScene3Sound  = "scene3Sound"
	FieldScene4Script = "scene4Script"
	FieldScene4Visual = "scene4Visual"
	FieldScene4Sound  = "scene4Sound"
)

// FieldKeys lists every StructuredContent key in display order.
var FieldKeys = []string{
	FieldObjective, FieldTone, FieldValueProp1, FieldValueProp2,
	FieldHook, FieldDescription, FieldCTA,
	FieldScene1Script, FieldScene1Visual, FieldScene1Sound,
	FieldScene2Script, FieldScene2Visual, FieldScene2Sound,
	FieldScene3Script, FieldScene3Visual, FieldScene3Sound,
	FieldScene4Script, FieldScene4Visual, FieldScene4Sound,
}

// ptr returns the address of the field for key, or nil for unknown keys.
func (c *StructuredContent) ptr(key string) *string {
	switch key {
	case FieldObjective:
		return &c.Objective
	case FieldTone:
		return &c.Tone
	case FieldValueProp1:
		return &c.ValueProp1
	case FieldValueProp2:
		return &c.ValueProp2
	case FieldHook:
		return &c.Hook
	case FieldDescription:
		return &c.Description
	case FieldCTA:
		return &c.CTA
	case FieldScene1Script:
		return &c.Scene1Script
	case FieldScene1Visual:
		return &c.Scene1Visual
	case FieldScene1Sound:
		return &c.Scene1Sound
	case FieldScene2Script:
		return &c.Scene2Script
	case FieldScene2Visual:
		return &c.Scene2Visual
	case FieldScene2Sound:
		return &c.Scene2Sound
	case FieldScene3Script:
		return &c.Scene3Script
	case FieldScene3Visual:
		return &c.Scene3Visual
	case FieldScene3Sound:
		return &c.Scene3Sound
	case FieldScene4Script:
		return &c.Scene4Script
	case FieldScene4Visual:
		return &c.Scene4Visual
	case FieldScene4Sound:
		return &c.Scene4Sound
	}
	return nil
}

// Get returns the value of the field with the given key ("" if unknown).
func (c *StructuredContent) Get(key string) string {
	if p := c.ptr(key); p != nil {
		return *p
	}
	return ""
}

// Set assigns the field with the given key. Returns false for unknown keys.
func (c *StructuredContent) Set(key, value string) bool {
	p := c.ptr(key)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// SceneKey returns the key of a scene sub-field, e.g. SceneKey(2, "Visual")
// is "scene2Visual". Scenes are numbered from 1.
func SceneKey(scene int, part string) string {
	return "scene" + string(rune('0'+scene)) + part
}

// IsEmpty reports whether every field is blank.
func (c *StructuredContent) IsEmpty() bool {
	for _, key := range FieldKeys {
		if strings.TrimSpace(c.Get(key)) != "" {
			return false
		}
	}
	return true
}

// ColumnName converts a compact field key into its word-separated column
// name: "valueProp1" becomes "value_prop_1", "scene2Sound" "scene_2_sound".
func ColumnName(key string) string {
	var b strings.Builder
	var prev rune
	for i, r := range key {
		if i > 0 {
			switch {
			case unicode.IsUpper(r):
				b.WriteByte('_')
			case unicode.IsDigit(r) && !unicode.IsDigit(prev):
				b.WriteByte('_')
			case !unicode.IsDigit(r) && unicode.IsDigit(prev):
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}

// FieldKey converts a word-separated column name back into the compact
// field key. It is the inverse of ColumnName for every key in FieldKeys.
func FieldKey(column string) string {
	parts := strings.Split(column, "_")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 || unicode.IsDigit(rune(p[0])) {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}
