// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"storyboarder/internal/markdown"
	"storyboarder/internal/models"
)

// Preview renders content as read-only HTML, grouped the same way Encode
// groups paragraphs.
func (c *Codec) Preview(content *models.StructuredContent) (string, error) {
	groups := make([][]markdown.Entry, 0, len(c.groups))
	for _, g := range c.groups {
		entries := make([]markdown.Entry, 0, len(g))
		for _, f := range g {
			entries = append(entries, markdown.Entry{Label: f.Label, Value: content.Get(f.Key)})
		}
		groups = append(groups, entries)
	}
	return markdown.Preview(groups)
}
