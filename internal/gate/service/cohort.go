package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/cohortgate/internal/gate/domain"
	"github.com/aussiebroadwan/cohortgate/internal/gate/store"
	"github.com/aussiebroadwan/cohortgate/pkg/cryptox"
	"github.com/aussiebroadwan/cohortgate/pkg/idx"
	"github.com/aussiebroadwan/cohortgate/pkg/slogx"
)

type CohortService struct {
	Store store.Store
}

// ActiveCohort returns the single active cohort. Zero or several active rows
// are both configuration errors.
func (s *CohortService) ActiveCohort(ctx context.Context) (domain.Cohort, error) {
	cohorts, err := s.Store.Cohorts().ListActiveCohorts(ctx)
	if err != nil {
		return domain.Cohort{}, fmt.Errorf("list active cohorts: %w", err)
	}

	switch len(cohorts) {
	case 0:
		return domain.Cohort{}, ErrNoActiveCohort
	case 1:
		return cohorts[0], nil
	default:
		ids := make([]string, len(cohorts))
		for i, c := range cohorts {
			ids[i] = c.ID
		}
		slogx.FromContext(ctx).Error("multiple active cohorts", slog.Any("cohort_ids", ids))
		return domain.Cohort{}, ErrMultipleActiveCohorts
	}
}

// CreateCohort stores a new cohort with its hashed team passphrase,
// optionally making it the active one.
func (s *CohortService) CreateCohort(ctx context.Context, name, passphrase string, activate bool) (domain.Cohort, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(passphrase) == "" {
		return domain.Cohort{}, invalid("name and passphrase are required")
	}

	hash, err := cryptox.HashSecret(cryptox.KindTeamPassphrase, passphrase)
	if err != nil {
		return domain.Cohort{}, fmt.Errorf("hash passphrase: %w", err)
	}

	c := domain.Cohort{
		ID:                 idx.New().String(),
		Name:               name,
		TeamPassphraseHash: hash,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Cohorts().CreateCohort(ctx, c); err != nil {
			return err
		}
		if activate {
			return tx.Cohorts().ActivateCohort(ctx, c.ID)
		}
		return nil
	})
	if err != nil {
		return domain.Cohort{}, fmt.Errorf("create cohort: %w", err)
	}

	return s.Store.Cohorts().GetCohortByID(ctx, c.ID)
}

// ActivateCohort makes id the only active cohort.
func (s *CohortService) ActivateCohort(ctx context.Context, id string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Cohorts().ActivateCohort(ctx, id)
	})
}

// SetPassphrase rotates the team passphrase of a cohort. Existing profiles
// and tokens are unaffected.
func (s *CohortService) SetPassphrase(ctx context.Context, id, passphrase string) error {
	if strings.TrimSpace(passphrase) == "" {
		return invalid("passphrase is required")
	}

	hash, err := cryptox.HashSecret(cryptox.KindTeamPassphrase, passphrase)
	if err != nil {
		return fmt.Errorf("hash passphrase: %w", err)
	}
	return s.Store.Cohorts().UpdateTeamPassphraseHash(ctx, id, hash)
}

func (s *CohortService) ListCohorts(ctx context.Context) ([]domain.Cohort, error) {
	return s.Store.Cohorts().ListCohorts(ctx)
}

// IsNotFound reports whether err means the cohort or profile does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
