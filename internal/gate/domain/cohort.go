package domain

import "time"

// Cohort is one training group. At most one cohort is active at a time and
// every gate request runs against that one.
type Cohort struct {
	ID                 string
	Name               string
	IsActive           bool
	TeamPassphraseHash string // argon2 encoded, kind team_passphrase
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
