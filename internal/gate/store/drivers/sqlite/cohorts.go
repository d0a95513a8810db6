package sqlite

import (
	"context"

	"github.com/aussiebroadwan/cohortgate/internal/gate/domain"
)

type cohortsRepo struct {
	db dbtx
}

const cohortColumns = `id, name, is_active, team_passphrase_hash, created_at, updated_at`

func scanCohort(row interface{ Scan(...any) error }) (domain.Cohort, error) {
	var c domain.Cohort
	err := row.Scan(&c.ID, &c.Name, &c.IsActive, &c.TeamPassphraseHash, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *cohortsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Cohort, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cohorts []domain.Cohort
	for rows.Next() {
		c, err := scanCohort(rows)
		if err != nil {
			return nil, err
		}
		cohorts = append(cohorts, c)
	}
	return cohorts, rows.Err()
}

func (r *cohortsRepo) ListActiveCohorts(ctx context.Context) ([]domain.Cohort, error) {
	return r.list(ctx, `SELECT `+cohortColumns+` FROM cohorts WHERE is_active = 1 ORDER BY created_at, id`)
}

func (r *cohortsRepo) ListCohorts(ctx context.Context) ([]domain.Cohort, error) {
	return r.list(ctx, `SELECT `+cohortColumns+` FROM cohorts ORDER BY created_at, id`)
}

func (r *cohortsRepo) GetCohortByID(ctx context.Context, id string) (domain.Cohort, error) {
	c, err := scanCohort(r.db.QueryRowContext(ctx,
		`SELECT `+cohortColumns+` FROM cohorts WHERE id = ?`, id))
	if err != nil {
		return domain.Cohort{}, mapNotFound(err)
	}
	return c, nil
}

func (r *cohortsRepo) CreateCohort(ctx context.Context, c domain.Cohort) error {
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cohorts (id, name, is_active, team_passphrase_hash, created_at, updated_at)
		 VALUES (?, ?, 0, ?, ?, ?)`,
		c.ID, c.Name, c.TeamPassphraseHash, ts, ts,
	)
	return mapConstraint(err)
}

func (r *cohortsRepo) ActivateCohort(ctx context.Context, id string) error {
	ts := now()
	if _, err := r.db.ExecContext(ctx,
		`UPDATE cohorts SET is_active = 0, updated_at = ? WHERE is_active = 1 AND id <> ?`,
		ts, id,
	); err != nil {
		return err
	}
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE cohorts SET is_active = 1, updated_at = ? WHERE id = ?`,
		ts, id,
	))
}

func (r *cohortsRepo) UpdateTeamPassphraseHash(ctx context.Context, id, hash string) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE cohorts SET team_passphrase_hash = ?, updated_at = ? WHERE id = ?`,
		hash, now(), id,
	))
}
