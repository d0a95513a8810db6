package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/cohortgate/internal/gate/domain"
	"github.com/aussiebroadwan/cohortgate/internal/gate/replay"
	"github.com/aussiebroadwan/cohortgate/internal/gate/store"
	"github.com/aussiebroadwan/cohortgate/pkg/cryptox"
	"github.com/aussiebroadwan/cohortgate/pkg/slogx"
	"github.com/aussiebroadwan/cohortgate/pkg/slug"
)

// GateService runs the three-step protocol: team passphrase for a temp
// token, temp token plus personal secret for a session, and name plus
// personal secret for a session on later visits.
type GateService struct {
	Store      store.Store
	Cohorts    *CohortService
	Identities *IdentityService
	Tokens     *TokenService

	// Replay defaults to replay.Nop.
	Replay replay.Guard
}

// AuthGateResult is returned after a successful passphrase check.
type AuthGateResult struct {
	Mode      domain.Mode
	TempToken string
	Profile   domain.Profile
}

// Session is a freshly issued session token.
type Session struct {
	Token     string
	ProfileID string
	ExpiresAt time.Time
}

// AuthGate checks the active cohort's team passphrase and resolves name to a
// profile, returning a temp token for it.
func (s *GateService) AuthGate(ctx context.Context, name, passphrase string) (AuthGateResult, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(name) == "" || strings.TrimSpace(passphrase) == "" {
		return AuthGateResult{}, invalid("name and passphrase are required")
	}

	cohort, err := s.Cohorts.ActiveCohort(ctx)
	if err != nil {
		return AuthGateResult{}, err
	}

	if !matchSecret(cryptox.KindTeamPassphrase, passphrase, cohort.TeamPassphraseHash) {
		log.Warn("auth gate rejected: team passphrase mismatch", slog.String("cohort_id", cohort.ID))
		return AuthGateResult{}, ErrUnauthorized
	}

	profile, isNew, err := s.Identities.Resolve(ctx, name, cohort.ID)
	if err != nil {
		return AuthGateResult{}, err
	}

	token, err := s.Tokens.IssueTemp(profile.ID)
	if err != nil {
		return AuthGateResult{}, fmt.Errorf("issue temp token: %w", err)
	}

	mode := domain.ModeReturning
	if isNew {
		mode = domain.ModeNew
	}
	log.Info("auth gate passed", slog.String("profile_id", profile.ID), slog.String("mode", string(mode)))

	return AuthGateResult{Mode: mode, TempToken: token, Profile: profile}, nil
}

// SetPersonalSecret stores a PIN or password for the temp token's subject
// and returns a session. When both are given the PIN is stored and the
// password ignored; the column not written is left as it was.
func (s *GateService) SetPersonalSecret(ctx context.Context, tempToken, pin, password string) (Session, error) {
	log := slogx.FromContext(ctx)

	claims, err := s.Tokens.VerifyTemp(tempToken)
	if err != nil {
		log.Warn("set personal secret rejected", slog.Any("err", err))
		return Session{}, ErrUnauthorized
	}
	profileID := claims.Subject

	kind, secret := cryptox.KindPIN, pin
	switch {
	case strings.TrimSpace(pin) != "":
	case strings.TrimSpace(password) != "":
		kind, secret = cryptox.KindPassword, password
	default:
		return Session{}, invalid("pin or password is required")
	}

	if err := s.replayGuard().Consume(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		if errors.Is(err, replay.ErrReplayed) || errors.Is(err, replay.ErrMissingID) {
			log.Warn("set personal secret rejected", slog.String("profile_id", profileID), slog.Any("err", err))
			return Session{}, ErrUnauthorized
		}
		return Session{}, fmt.Errorf("replay guard: %w", err)
	}

	hash, err := cryptox.HashSecret(kind, secret)
	if err != nil {
		return Session{}, fmt.Errorf("hash %s: %w", kind, err)
	}

	if kind == cryptox.KindPIN {
		err = s.Store.Profiles().SetPinHash(ctx, profileID, hash)
	} else {
		err = s.Store.Profiles().SetPasswordHash(ctx, profileID, hash)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("set personal secret rejected: unknown profile", slog.String("profile_id", profileID))
			return Session{}, ErrUnauthorized
		}
		return Session{}, fmt.Errorf("store %s hash: %w", kind, err)
	}

	log.Info("personal secret set", slog.String("profile_id", profileID), slog.String("kind", string(kind)))
	return s.issueSession(profileID)
}

// LoginExisting signs in a returning student by name and personal secret.
// Every failure that depends on the profile, an empty secret included, is
// reported as ErrInvalidLogin.
func (s *GateService) LoginExisting(ctx context.Context, name, secret string) (Session, error) {
	log := slogx.FromContext(ctx)

	if strings.TrimSpace(name) == "" {
		return Session{}, invalid("name is required")
	}

	cohort, err := s.Cohorts.ActiveCohort(ctx)
	if err != nil {
		return Session{}, err
	}

	nameSlug := slug.Normalize(name)
	profile, err := s.Store.Profiles().GetProfileBySlug(ctx, cohort.ID, nameSlug)
	switch {
	case errors.Is(err, store.ErrNotFound) || nameSlug == "":
		burnVerification(secret)
		log.Warn("login rejected: unknown name", slog.String("name_slug", nameSlug))
		return Session{}, ErrInvalidLogin
	case err != nil:
		return Session{}, fmt.Errorf("lookup profile: %w", err)
	}

	var ok bool
	switch {
	case profile.PinHash != "":
		ok = matchSecret(cryptox.KindPIN, secret, profile.PinHash)
	case profile.PasswordHash != "":
		ok = matchSecret(cryptox.KindPassword, secret, profile.PasswordHash)
	default:
		burnVerification(secret)
		log.Warn("login rejected: no personal secret set", slog.String("profile_id", profile.ID))
		return Session{}, ErrInvalidLogin
	}
	if !ok {
		log.Warn("login rejected: secret mismatch", slog.String("profile_id", profile.ID))
		return Session{}, ErrInvalidLogin
	}

	log.Info("login succeeded", slog.String("profile_id", profile.ID))
	return s.issueSession(profile.ID)
}

// CurrentProfile returns the profile a verified session token points at.
func (s *GateService) CurrentProfile(ctx context.Context, profileID string) (domain.Profile, error) {
	p, err := s.Store.Profiles().GetProfileByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrUnauthorized
		}
		return domain.Profile{}, err
	}
	return p, nil
}

func (s *GateService) issueSession(profileID string) (Session, error) {
	token, exp, err := s.Tokens.IssueSession(profileID)
	if err != nil {
		return Session{}, fmt.Errorf("issue session token: %w", err)
	}
	return Session{Token: token, ProfileID: profileID, ExpiresAt: exp}, nil
}

func (s *GateService) replayGuard() replay.Guard {
	if s.Replay == nil {
		return replay.Nop{}
	}
	return s.Replay
}

// matchSecret treats every verification error, including an empty or
// malformed hash, as a mismatch.
func matchSecret(kind cryptox.SecretKind, secret, hash string) bool {
	return cryptox.VerifySecret(kind, secret, hash) == nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// burnVerification spends the same argon2 work as a real check so unknown
// names and unset secrets answer no faster than a wrong secret.
func burnVerification(secret string) {
	dummyOnce.Do(func() {
		dummyHash, _ = cryptox.HashSecret(cryptox.KindPassword, "cohortgate-dummy")
	})
	_ = matchSecret(cryptox.KindPassword, secret, dummyHash)
}
