// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CreatorStatus tracks where an influencer is in the relationship.
type CreatorStatus string

const (
	CreatorStatusProspect CreatorStatus = "prospect"
	CreatorStatusActive   CreatorStatus = "active"
	CreatorStatusInactive CreatorStatus = "inactive"
)

// Valid reports whether s is one of the known statuses.
func (s CreatorStatus) Valid() bool {
	switch s {
	case CreatorStatusProspect, CreatorStatusActive, CreatorStatusInactive:
		return true
	}
	return false
}

// Creator is an influencer managed by the agency. A creator can be reached
// through several e-mail roles; only Email is required.
type Creator struct {
	ID                    uuid.UUID     `json:"id"`
	Name                  string        `json:"name"`
	FirstName             *string       `json:"first_name,omitempty"`
	LastName              *string       `json:"last_name,omitempty"`
	Email                 *string       `json:"email,omitempty"`
	RepresentativeEmail   *string       `json:"representative_email,omitempty"`
	AgencyEmail           *string       `json:"agency_email,omitempty"`
	BillingEmail          *string       `json:"billing_email,omitempty"`
	AgencyName            *string       `json:"agency_name,omitempty"`
	Country               *string       `json:"country,omitempty"`
	BusinessType          *string       `json:"business_type,omitempty"`
	Status                CreatorStatus `json:"status"`
	Platform              *string       `json:"platform,omitempty"`
	Category              *string       `json:"category,omitempty"`
	OnboardingCompleted   bool          `json:"onboarding_completed"`
	OnboardingCompletedAt *time.Time    `json:"onboarding_completed_at,omitempty"`
	ContractSigned        bool          `json:"contract_signed"`
	ContractSignedAt      *time.Time    `json:"contract_signed_at,omitempty"`
	ResponsibleUserID     *uuid.UUID    `json:"responsible_user_id,omitempty"`
	ContentCount          int           `json:"content_count"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

// FullName joins first and last name, falling back to Name.
func (c *Creator) FullName() string {
	var first, last string
	if c.FirstName != nil {
		first = *c.FirstName
	}
	if c.LastName != nil {
		last = *c.LastName
	}
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	}
	return c.Name
}
