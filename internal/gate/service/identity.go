package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/cohortgate/internal/gate/domain"
	"github.com/aussiebroadwan/cohortgate/internal/gate/store"
	"github.com/aussiebroadwan/cohortgate/pkg/idx"
	"github.com/aussiebroadwan/cohortgate/pkg/slogx"
	"github.com/aussiebroadwan/cohortgate/pkg/slug"
)

const (
	// DefaultResolveAttempts bounds how often Resolve restarts after losing
	// an insert race.
	DefaultResolveAttempts = 8

	// maxSlugSuffix bounds the scan in UniqueSlug.
	maxSlugSuffix = 10_000
)

// IdentityService maps a display name in a cohort to a profile, creating the
// profile the first time the name is seen.
type IdentityService struct {
	Store       store.Store
	MaxAttempts int
	Now         func() time.Time
}

// Resolve returns the profile whose slug matches displayName in cohortID,
// and whether it was just created.
//
// Lookup and insert are not atomic; the (name_slug, cohort_id) unique
// constraint is the arbiter. Losing an insert race restarts the loop, which
// normally finds the winner's profile on the next lookup.
func (s *IdentityService) Resolve(ctx context.Context, displayName, cohortID string) (domain.Profile, bool, error) {
	log := slogx.FromContext(ctx)

	base := slug.Normalize(displayName)
	if base == "" {
		return domain.Profile{}, false, invalid("name must contain at least one letter or digit")
	}

	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultResolveAttempts
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		existing, err := s.Store.Profiles().GetProfileBySlug(ctx, cohortID, base)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, false, fmt.Errorf("lookup profile: %w", err)
		}

		candidate, err := s.UniqueSlug(ctx, cohortID, base)
		if err != nil {
			return domain.Profile{}, false, err
		}

		now := s.now()
		p := domain.Profile{
			ID:          idx.NewAt(now).String(),
			DisplayName: displayName,
			NameSlug:    candidate,
			CohortID:    cohortID,
			Role:        domain.RoleStudent,
			AuthType:    domain.AuthTypeNamePassphrase,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		err = s.Store.Profiles().CreateProfile(ctx, p)
		if err == nil {
			log.Info("profile created",
				slog.String("profile_id", p.ID),
				slog.String("cohort_id", cohortID),
				slog.String("name_slug", candidate),
			)
			return p, true, nil
		}
		if !errors.Is(err, store.ErrAlreadyExists) {
			return domain.Profile{}, false, fmt.Errorf("create profile: %w", err)
		}

		log.Debug("slug taken during insert, retrying",
			slog.String("name_slug", candidate),
			slog.Int("attempt", attempt),
		)
	}

	log.Error("giving up on slug resolution", slog.String("name_slug", base), slog.Int("attempts", attempts))
	return domain.Profile{}, false, ErrSlugContention
}

// UniqueSlug returns the first of base, base-1, base-2, ... that no profile in
// cohortID uses yet.
func (s *IdentityService) UniqueSlug(ctx context.Context, cohortID, base string) (string, error) {
	for n := 0; n <= maxSlugSuffix; n++ {
		candidate := slug.WithSuffix(base, n)
		taken, err := s.Store.Profiles().SlugExists(ctx, cohortID, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrSlugExhausted
}

func (s *IdentityService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
