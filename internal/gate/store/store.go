package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/cohortgate/internal/gate/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories hang off the store and off a Tx so the
// same code runs inside and outside a transaction.
type Store interface {
	Cohorts() Cohorts
	Profiles() Profiles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Cohorts interface {
	// ListActiveCohorts returns every cohort with is_active set, oldest
	// first. The schema allows at most one.
	ListActiveCohorts(ctx context.Context) ([]domain.Cohort, error)

	// ListCohorts returns all cohorts, oldest first.
	ListCohorts(ctx context.Context) ([]domain.Cohort, error)

	GetCohortByID(ctx context.Context, id string) (domain.Cohort, error)

	// CreateCohort inserts an inactive cohort (id is provided by app via ULID).
	CreateCohort(ctx context.Context, c domain.Cohort) error

	// ActivateCohort clears is_active on every other cohort and sets it on
	// id. Run it inside a transaction.
	ActivateCohort(ctx context.Context, id string) error

	UpdateTeamPassphraseHash(ctx context.Context, id, hash string) error
}

type Profiles interface {
	GetProfileByID(ctx context.Context, id string) (domain.Profile, error)

	// GetProfileBySlug is the point lookup on (name_slug, cohort_id).
	GetProfileBySlug(ctx context.Context, cohortID, slug string) (domain.Profile, error)

	SlugExists(ctx context.Context, cohortID, slug string) (bool, error)

	// CreateProfile inserts a profile. A taken (name_slug, cohort_id) pair
	// returns ErrAlreadyExists.
	CreateProfile(ctx context.Context, p domain.Profile) error

	// SetPinHash and SetPasswordHash each write one column and bump
	// updated_at. ErrNotFound when the profile does not exist.
	SetPinHash(ctx context.Context, profileID, hash string) error
	SetPasswordHash(ctx context.Context, profileID, hash string) error
}
