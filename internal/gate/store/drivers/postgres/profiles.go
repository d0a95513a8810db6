package postgres

import (
	"context"

	"github.com/aussiebroadwan/cohortgate/internal/gate/domain"
	"github.com/jackc/pgx/v5"
)

type profilesRepo struct {
	db dbtx
}

const profileColumns = `id, display_name, name_slug, cohort_id, role, auth_type,
	pin_hash, password_hash, created_at, updated_at`

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	var pinHash, pwdHash *string
	err := row.Scan(
		&p.ID, &p.DisplayName, &p.NameSlug, &p.CohortID, &p.Role, &p.AuthType,
		&pinHash, &pwdHash, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	p.PinHash = deref(pinHash)
	p.PasswordHash = deref(pwdHash)
	return p, nil
}

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

func (r *profilesRepo) GetProfileBySlug(ctx context.Context, cohortID, slug string) (domain.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE cohort_id = $1 AND name_slug = $2`,
		cohortID, slug,
	))
}

func (r *profilesRepo) SlugExists(ctx context.Context, cohortID, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE cohort_id = $1 AND name_slug = $2)`,
		cohortID, slug,
	).Scan(&exists)
	return exists, err
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	created, updated := p.CreatedAt, p.UpdatedAt
	if created.IsZero() {
		created = now()
	}
	if updated.IsZero() {
		updated = created
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO profiles (`+profileColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.DisplayName, p.NameSlug, p.CohortID, p.Role, p.AuthType,
		optional(p.PinHash), optional(p.PasswordHash), created, updated,
	)
	return mapConstraint(err)
}

func (r *profilesRepo) SetPinHash(ctx context.Context, profileID, hash string) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE profiles SET pin_hash = $1, updated_at = $2 WHERE id = $3`,
		hash, now(), profileID,
	))
}

func (r *profilesRepo) SetPasswordHash(ctx context.Context, profileID, hash string) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE profiles SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		hash, now(), profileID,
	))
}
