package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/cohortgate/internal/gate/domain"
)

type profilesRepo struct {
	db dbtx
}

const profileColumns = `id, display_name, name_slug, cohort_id, role, auth_type,
	pin_hash, password_hash, created_at, updated_at`

func scanProfile(row *sql.Row) (domain.Profile, error) {
	var p domain.Profile
	var pinHash, pwdHash sql.NullString
	err := row.Scan(
		&p.ID, &p.DisplayName, &p.NameSlug, &p.CohortID, &p.Role, &p.AuthType,
		&pinHash, &pwdHash, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	p.PinHash = mapNullString(pinHash)
	p.PasswordHash = mapNullString(pwdHash)
	return p, nil
}

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	return scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id))
}

func (r *profilesRepo) GetProfileBySlug(ctx context.Context, cohortID, slug string) (domain.Profile, error) {
	return scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE cohort_id = ? AND name_slug = ?`,
		cohortID, slug,
	))
}

func (r *profilesRepo) SlugExists(ctx context.Context, cohortID, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE cohort_id = ? AND name_slug = ?)`,
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

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (`+profileColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.DisplayName, p.NameSlug, p.CohortID, p.Role, p.AuthType,
		mapStringNull(p.PinHash), mapStringNull(p.PasswordHash), created.UTC(), updated.UTC(),
	)
	return mapConstraint(err)
}

func (r *profilesRepo) SetPinHash(ctx context.Context, profileID, hash string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE profiles SET pin_hash = ?, updated_at = ? WHERE id = ?`,
		hash, now(), profileID,
	))
}

func (r *profilesRepo) SetPasswordHash(ctx context.Context, profileID, hash string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE profiles SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, now(), profileID,
	))
}
