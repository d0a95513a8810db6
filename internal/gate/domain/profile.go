package domain

import "time"

const (
	RoleStudent = "student"

	// AuthTypeNamePassphrase marks a profile created by passing the team
	// passphrase under a display name.
	AuthTypeNamePassphrase = "name_passphrase"
)

// Mode tells the caller of the auth gate whether the name was seen before.
type Mode string

const (
	ModeNew       Mode = "new"
	ModeReturning Mode = "returning"
)

// Profile is a student identity, unique by (NameSlug, CohortID).
type Profile struct {
	ID           string
	DisplayName  string // as entered, not normalized
	NameSlug     string
	CohortID     string
	Role         string
	AuthType     string
	PinHash      string // argon2 encoded, empty when unset
	PasswordHash string // argon2 encoded, empty when unset
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasSecret reports whether a personal secret has been set.
func (p Profile) HasSecret() bool {
	return p.PinHash != "" || p.PasswordHash != ""
}
