// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"storyboarder/internal/models"
)

// Validation limits for form fields.
const (
	maxNameLen         = 200
	maxShortFieldLen   = 200
	maxEmailLen        = 320
	maxTemplateNameLen = 200
	maxSections        = 30
	maxSectionLen      = 200
)

// trimPtr trims *s and turns a blank value into nil.
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// validateEmail checks an optional e-mail field.
func validateEmail(label string, email *string) string {
	if email == nil {
		return ""
	}
	if utf8.RuneCountInString(*email) > maxEmailLen {
		return label + " is too long."
	}
	if _, err := mail.ParseAddress(*email); err != nil {
		return label + " is not a valid e-mail address."
	}
	return ""
}

// validateClient normalizes client input and returns the first error found.
func validateClient(c *models.Client) string {
	c.Name = strings.TrimSpace(c.Name)
	c.Industry = trimPtr(c.Industry)
	c.ContactPerson = trimPtr(c.ContactPerson)
	c.Email = trimPtr(c.Email)

	if c.Name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(c.Name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	for _, f := range []*string{c.Industry, c.ContactPerson} {
		if f != nil && utf8.RuneCountInString(*f) > maxShortFieldLen {
			return "Field is too long (max 200 characters)."
		}
	}
	return validateEmail("Email", c.Email)
}

// validateCreator normalizes creator input and returns the first error found.
func validateCreator(c *models.Creator) string {
	c.Name = strings.TrimSpace(c.Name)
	c.FirstName = trimPtr(c.FirstName)
	c.LastName = trimPtr(c.LastName)
	c.Email = trimPtr(c.Email)
	c.RepresentativeEmail = trimPtr(c.RepresentativeEmail)
	c.AgencyEmail = trimPtr(c.AgencyEmail)
	c.BillingEmail = trimPtr(c.BillingEmail)
	c.AgencyName = trimPtr(c.AgencyName)
	c.Country = trimPtr(c.Country)
	c.BusinessType = trimPtr(c.BusinessType)
	c.Platform = trimPtr(c.Platform)
	c.Category = trimPtr(c.Category)

	if c.Name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(c.Name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	if c.Email == nil {
		return "Email is required."
	}
	if c.Status == "" {
		c.Status = models.CreatorStatusProspect
	}
	if !c.Status.Valid() {
		return "Status must be prospect, active or inactive."
	}
	if c.ContentCount < 0 {
		return "Content count cannot be negative."
	}
	emails := []struct {
		label string
		value *string
	}{
		{"Email", c.Email},
		{"Representative email", c.RepresentativeEmail},
		{"Agency email", c.AgencyEmail},
		{"Billing email", c.BillingEmail},
	}
	for _, e := range emails {
		if msg := validateEmail(e.label, e.value); msg != "" {
			return msg
		}
	}
	return ""
}

// validateTemplate normalizes template input and returns the first error found.
func validateTemplate(t *models.Template) string {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return "Template name is required."
	}
	if utf8.RuneCountInString(t.Name) > maxTemplateNameLen {
		return "Template name is too long (max 200 characters)."
	}

	sections := make([]string, 0, len(t.Sections))
	for _, s := range t.Sections {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if utf8.RuneCountInString(s) > maxSectionLen {
			return "Section names are limited to 200 characters."
		}
		sections = append(sections, s)
	}
	if len(sections) == 0 {
		return "At least one section is required."
	}
	if len(sections) > maxSections {
		return "Too many sections (max 30)."
	}
	t.Sections = sections
	return ""
}
