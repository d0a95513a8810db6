package postgres

import (
	"context"

	"github.com/aussiebroadwan/cohortgate/internal/gate/domain"
	"github.com/jackc/pgx/v5"
)

type cohortsRepo struct {
	db dbtx
}

const cohortColumns = `id, name, is_active, team_passphrase_hash, created_at, updated_at`

func scanCohort(row pgx.Row) (domain.Cohort, error) {
	var c domain.Cohort
	err := row.Scan(&c.ID, &c.Name, &c.IsActive, &c.TeamPassphraseHash, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *cohortsRepo) list(ctx context.Context, query string) ([]domain.Cohort, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
	return r.list(ctx, `SELECT `+cohortColumns+` FROM cohorts WHERE is_active ORDER BY created_at, id`)
}

func (r *cohortsRepo) ListCohorts(ctx context.Context) ([]domain.Cohort, error) {
	return r.list(ctx, `SELECT `+cohortColumns+` FROM cohorts ORDER BY created_at, id`)
}

func (r *cohortsRepo) GetCohortByID(ctx context.Context, id string) (domain.Cohort, error) {
	c, err := scanCohort(r.db.QueryRow(ctx,
		`SELECT `+cohortColumns+` FROM cohorts WHERE id = $1`, id))
	if err != nil {
		return domain.Cohort{}, mapNotFound(err)
	}
	return c, nil
}

func (r *cohortsRepo) CreateCohort(ctx context.Context, c domain.Cohort) error {
	ts := now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO cohorts (id, name, is_active, team_passphrase_hash, created_at, updated_at)
		 VALUES ($1, $2, FALSE, $3, $4, $4)`,
		c.ID, c.Name, c.TeamPassphraseHash, ts,
	)
	return mapConstraint(err)
}

func (r *cohortsRepo) ActivateCohort(ctx context.Context, id string) error {
	ts := now()
	if _, err := r.db.Exec(ctx,
		`UPDATE cohorts SET is_active = FALSE, updated_at = $1 WHERE is_active AND id <> $2`,
		ts, id,
	); err != nil {
		return err
	}
	return expectOne(r.db.Exec(ctx,
		`UPDATE cohorts SET is_active = TRUE, updated_at = $1 WHERE id = $2`,
		ts, id,
	))
}

func (r *cohortsRepo) UpdateTeamPassphraseHash(ctx context.Context, id, hash string) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE cohorts SET team_passphrase_hash = $1, updated_at = $2 WHERE id = $3`,
		hash, now(), id,
	))
}
