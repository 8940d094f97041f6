// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slides

import (
	"strconv"
	"strings"
	"time"

	"storyboarder/internal/models"
)

// Meta is the storyboard context that fills the non-content placeholders.
type Meta struct {
	Title     string
	Client    string
	Creator   string
	Platforms []string
	Message   string
	Target    string
	Date      time.Time
}

// Fallbacks used when a value is blank, so no raw {{token}} is left in the deck.
const (
	NoClient     = "Sin cliente"
	noCreator    = "Sin creador"
	noPlatforms  = "Todas las plataformas"
	pendingValue = "Por definir"
	untitled     = "Storyboard"
)

const (
	fileDateLayout    = "2006-01-02"
	displayDateLayout = "02/01/2006"
)

// contentTokens maps each content field to its placeholder, in deck order.
var contentTokens = []struct {
	token, key string
}{
	{"{{objetivo}}", models.FieldObjective},
	{"{{tono}}", models.FieldTone},
	{"{{propuesta_valor_1}}", models.FieldValueProp1},
	{"{{propuesta_valor_2}}", models.FieldValueProp2},
	{"{{hook}}", models.FieldHook},
	{"{{descripcion}}", models.FieldDescription},
	{"{{cta}}", models.FieldCTA},
}

var sceneTokenParts = []struct {
	suffix, part string
}{
	{"script", "Script"},
	{"visual", "Visual"},
	{"sonido", "Sound"},
}

// Placeholders returns the replacement list for a deck: storyboard metadata,
// the seven general fields, and per scene a header plus its script, visual
// and sound. Blank values are replaced with a fallback.
func Placeholders(c *models.StructuredContent, m Meta) []Replacement {
	reps := []Replacement{
		{"{{titulo}}", orDefault(m.Title, untitled)},
		{"{{cliente}}", orDefault(m.Client, NoClient)},
		{"{{creador}}", orDefault(m.Creator, noCreator)},
		{"{{fecha}}", m.Date.Format(displayDateLayout)},
		{"{{plataformas}}", orDefault(strings.Join(m.Platforms, ", "), noPlatforms)},
		{"{{mensaje}}", orDefault(m.Message, pendingValue)},
		{"{{target}}", orDefault(m.Target, pendingValue)},
	}

	for _, t := range contentTokens {
		reps = append(reps, Replacement{t.token, orDefault(c.Get(t.key), pendingValue)})
	}

	for scene := 1; scene <= models.SceneCount; scene++ {
		n := strconv.Itoa(scene)
		reps = append(reps, Replacement{"{{escena_" + n + "_titulo}}", "Escena " + n})
		for _, p := range sceneTokenParts {
			value := c.Get(models.SceneKey(scene, p.part))
			reps = append(reps, Replacement{"{{escena_" + n + "_" + p.suffix + "}}", orDefault(value, pendingValue)})
		}
	}

	return reps
}

// FileName names the copied deck "Storyboard - <client> - <YYYY-MM-DD>",
// followed by the title when there is one.
func FileName(m Meta) string {
	name := "Storyboard - " + orDefault(m.Client, NoClient) + " - " + m.Date.Format(fileDateLayout)
	if t := strings.TrimSpace(m.Title); t != "" {
		name += " - " + t
	}
	return name
}

// PresentationURL returns the edit link of a presentation.
func PresentationURL(id string) string {
	return "https://docs.google.com/presentation/d/" + id + "/edit"
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
