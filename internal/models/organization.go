package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents an organization (tenant) in the system.
// Each organization owns zero or more sites.
type Organization struct {
	OrgID     uuid.UUID // UUIDv7
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Site is a physical or logical location belonging to an organization.
type Site struct {
	SiteID    uuid.UUID // UUIDv7
	OrgID     uuid.UUID // FK to organizations
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Recorder is a network data recorder deployed at a site.
type Recorder struct {
	RecorderID uuid.UUID // UUIDv7
	SiteID     uuid.UUID // FK to sites
	Name       string    // Human readable name, e.g. "Perimeter Tap"
	Type       string    // Recorder type or image identifier, e.g. "ndr_web_test"
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Grant gives a user visibility of an organization and everything beneath it.
type Grant struct {
	UserID    uuid.UUID
	OrgID     uuid.UUID
	CreatedAt time.Time
}
