package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/cohortgate/internal/gate/domain"
	"github.com/aussiebroadwan/cohortgate/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGate_AdaLovelace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.gate.AuthGate(ctx, "Ada Lovelace", teamPassphrase)
	require.NoError(t, err)
	require.Equal(t, domain.ModeNew, res.Mode)
	require.Equal(t, "ada-lovelace", res.Profile.NameSlug)
	require.Equal(t, "Ada Lovelace", res.Profile.DisplayName)
	require.NotEmpty(t, res.TempToken)

	first, err := f.gate.SetPersonalSecret(ctx, res.TempToken, "1815", "")
	require.NoError(t, err)
	require.Equal(t, res.Profile.ID, first.ProfileID)
	require.WithinDuration(t, f.clock.Now().Add(7*24*time.Hour), first.ExpiresAt, time.Second)

	f.clock.Advance(48 * time.Hour)

	second, err := f.gate.LoginExisting(ctx, "ada lovelace", "1815")
	require.NoError(t, err)

	c1, err := f.gate.Tokens.VerifySession(first.Token)
	require.NoError(t, err)
	c2, err := f.gate.Tokens.VerifySession(second.Token)
	require.NoError(t, err)
	require.Equal(t, res.Profile.ID, c1.Subject)
	require.Equal(t, c1.Subject, c2.Subject)
	require.NotEqual(t, c1.ID, c2.ID)
}

func TestAuthGate_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.gate.AuthGate(ctx, "Grace Hopper", teamPassphrase)
	require.NoError(t, err)
	require.Equal(t, domain.ModeNew, first.Mode)

	again, err := f.gate.AuthGate(ctx, "  grace   HOPPER ", teamPassphrase)
	require.NoError(t, err)
	require.Equal(t, domain.ModeReturning, again.Mode)
	require.Equal(t, first.Profile.ID, again.Profile.ID)
	require.Equal(t, "Grace Hopper", again.Profile.DisplayName)
}

func TestAuthGate_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name, displayName, passphrase string
	}{
		{"empty name", "", teamPassphrase},
		{"blank name", "   ", teamPassphrase},
		{"empty passphrase", "Ada", ""},
		{"blank passphrase", "Ada", " \t"},
		{"name without letters", "!!!", teamPassphrase},
		{"only hyphens", "---", teamPassphrase},
		{"cyrillic name", "Иван Петров", teamPassphrase},
		{"cjk name", "山田 太郎", teamPassphrase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.gate.AuthGate(context.Background(), tt.displayName, tt.passphrase)
			_, ok := IsValidation(err)
			require.True(t, ok, "got %v", err)
		})
	}
}

// Names that normalize to nothing must not collapse onto one shared profile.
func TestAuthGate_NonLatinNamesDoNotShareProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"山田 太郎", "Иван Петров"} {
		_, err := f.gate.AuthGate(ctx, name, teamPassphrase)
		_, ok := IsValidation(err)
		require.True(t, ok, "%q: got %v", name, err)
	}

	for _, candidate := range []string{"", "-"} {
		taken, err := f.store.Profiles().SlugExists(ctx, f.cohort.ID, candidate)
		require.NoError(t, err)
		require.False(t, taken, "slug %q", candidate)
	}

	// A trailing symbol does not make a second identity.
	first, err := f.gate.AuthGate(ctx, "Zoë Ünal", teamPassphrase)
	require.NoError(t, err)
	second, err := f.gate.AuthGate(ctx, "Zoë Ünal !!", teamPassphrase)
	require.NoError(t, err)
	require.Equal(t, domain.ModeReturning, second.Mode)
	require.Equal(t, first.Profile.ID, second.Profile.ID)
	require.Equal(t, "zoe-unal", second.Profile.NameSlug)
}

func TestAuthGate_WrongPassphrase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.gate.AuthGate(ctx, "Ada Lovelace", "difference-engine")
	require.ErrorIs(t, err, ErrUnauthorized)

	taken, err := f.store.Profiles().SlugExists(ctx, f.cohort.ID, "ada-lovelace")
	require.NoError(t, err)
	require.False(t, taken, "no profile is created before the passphrase checks out")
}

func TestAuthGate_NoActiveCohort(t *testing.T) {
	s := newTestStore(t)
	clock := newFakeClock()
	g := &GateService{
		Store:      s,
		Cohorts:    &CohortService{Store: s},
		Identities: &IdentityService{Store: s},
		Tokens:     newTokens(t, clock),
	}

	_, err := g.AuthGate(context.Background(), "Ada", teamPassphrase)
	require.ErrorIs(t, err, ErrNoActiveCohort)

	_, err = g.LoginExisting(context.Background(), "Ada", "1815")
	require.ErrorIs(t, err, ErrNoActiveCohort)
}

func TestAuthGate_MultipleActiveCohorts(t *testing.T) {
	f := newFixture(t)
	f.gate.Cohorts = &CohortService{Store: multiActiveStore{f.store}}

	_, err := f.gate.AuthGate(context.Background(), "Ada", teamPassphrase)
	require.ErrorIs(t, err, ErrMultipleActiveCohorts)
}

func TestSetPersonalSecret_TokenTypeIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.gate.AuthGate(ctx, "Ada", teamPassphrase)
	require.NoError(t, err)

	session, err := f.gate.SetPersonalSecret(ctx, res.TempToken, "1815", "")
	require.NoError(t, err)

	_, err = f.gate.SetPersonalSecret(ctx, session.Token, "0000", "")
	require.ErrorIs(t, err, ErrUnauthorized, "a session token is not a temp token")

	_, err = f.gate.Tokens.VerifySession(res.TempToken)
	require.ErrorIs(t, err, ErrInvalidToken, "a temp token is not a session token")
}

func TestSetPersonalSecret_TempTokenExpiry(t *testing.T) {
	ctx := context.Background()

	t.Run("valid just before five minutes", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.gate.AuthGate(ctx, "Ada", teamPassphrase)
		require.NoError(t, err)

		f.clock.Advance(4*time.Minute + 59*time.Second)
		_, err = f.gate.SetPersonalSecret(ctx, res.TempToken, "1815", "")
		require.NoError(t, err)
	})

	t.Run("rejected just after five minutes", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.gate.AuthGate(ctx, "Ada", teamPassphrase)
		require.NoError(t, err)

		f.clock.Advance(5*time.Minute + time.Second)
		_, err = f.gate.SetPersonalSecret(ctx, res.TempToken, "1815", "")
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestSetPersonalSecret_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.gate.AuthGate(ctx, "Ada", teamPassphrase)
	require.NoError(t, err)

	t.Run("missing secret", func(t *testing.T) {
		_, err := f.gate.SetPersonalSecret(ctx, res.TempToken, "", " ")
		_, ok := IsValidation(err)
		require.True(t, ok, "got %v", err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.gate.SetPersonalSecret(ctx, "not-a-jwt", "1815", "")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := f.gate.SetPersonalSecret(ctx, "", "1815", "")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown profile", func(t *testing.T) {
		orphan, err := f.gate.Tokens.IssueTemp("01JNOSUCHPROFILE000000000")
		require.NoError(t, err)

		_, err = f.gate.SetPersonalSecret(ctx, orphan, "1815", "")
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestSetPersonalSecret_PinWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.gate.AuthGate(ctx, "Ada", teamPassphrase)
	require.NoError(t, err)

	_, err = f.gate.SetPersonalSecret(ctx, res.TempToken, "1815", "bernoulli-numbers")
	require.NoError(t, err)

	p, err := f.store.Profiles().GetProfileByID(ctx, res.Profile.ID)
	require.NoError(t, err)
	require.NotEmpty(t, p.PinHash)
	require.Empty(t, p.PasswordHash)

	_, err = f.gate.LoginExisting(ctx, "Ada", "1815")
	require.NoError(t, err)
	_, err = f.gate.LoginExisting(ctx, "Ada", "bernoulli-numbers")
	require.ErrorIs(t, err, ErrInvalidLogin)
}

func TestSetPersonalSecret_LeavesOtherColumn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.gate.AuthGate(ctx, "Ada", teamPassphrase)
	require.NoError(t, err)
	_, err = f.gate.SetPersonalSecret(ctx, res.TempToken, "1815", "")
	require.NoError(t, err)

	res, err = f.gate.AuthGate(ctx, "Ada", teamPassphrase)
	require.NoError(t, err)
	require.Equal(t, domain.ModeReturning, res.Mode)
	_, err = f.gate.SetPersonalSecret(ctx, res.TempToken, "", "bernoulli-numbers")
	require.NoError(t, err)

	p, err := f.store.Profiles().GetProfileByID(ctx, res.Profile.ID)
	require.NoError(t, err)
	require.NotEmpty(t, p.PinHash)
	require.NotEmpty(t, p.PasswordHash)

	// The PIN is still preferred at login.
	_, err = f.gate.LoginExisting(ctx, "Ada", "1815")
	require.NoError(t, err)
	_, err = f.gate.LoginExisting(ctx, "Ada", "bernoulli-numbers")
	require.ErrorIs(t, err, ErrInvalidLogin)
}

func TestSetPersonalSecret_ReplayGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.gate.AuthGate(ctx, "Ada", teamPassphrase)
	require.NoError(t, err)

	// Without a guard the temp token is reusable until it expires.
	_, err = f.gate.SetPersonalSecret(ctx, res.TempToken, "1815", "")
	require.NoError(t, err)
	_, err = f.gate.SetPersonalSecret(ctx, res.TempToken, "1816", "")
	require.NoError(t, err)

	f.gate.Replay = &memGuard{}
	res, err = f.gate.AuthGate(ctx, "Ada", teamPassphrase)
	require.NoError(t, err)

	_, err = f.gate.SetPersonalSecret(ctx, res.TempToken, "1817", "")
	require.NoError(t, err)
	_, err = f.gate.SetPersonalSecret(ctx, res.TempToken, "9999", "")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.gate.LoginExisting(ctx, "Ada", "1817")
	require.NoError(t, err, "the replayed request must not overwrite the secret")
}

func TestLoginExisting_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.gate.AuthGate(ctx, "Charles Babbage", teamPassphrase)
	require.NoError(t, err)

	t.Run("no secret set", func(t *testing.T) {
		_, err := f.gate.LoginExisting(ctx, "Charles Babbage", "anything")
		require.ErrorIs(t, err, ErrInvalidLogin)
	})

	_, err = f.gate.SetPersonalSecret(ctx, res.TempToken, "", "difference-engine")
	require.NoError(t, err)

	t.Run("unknown name", func(t *testing.T) {
		_, err := f.gate.LoginExisting(ctx, "Ada Lovelace", "difference-engine")
		require.ErrorIs(t, err, ErrInvalidLogin)
	})

	t.Run("name without letters", func(t *testing.T) {
		_, err := f.gate.LoginExisting(ctx, "???", "difference-engine")
		require.ErrorIs(t, err, ErrInvalidLogin)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := f.gate.LoginExisting(ctx, "Charles Babbage", "analytical-engine")
		require.ErrorIs(t, err, ErrInvalidLogin)
	})

	t.Run("team passphrase is not a personal secret", func(t *testing.T) {
		_, err := f.gate.LoginExisting(ctx, "Charles Babbage", teamPassphrase)
		require.ErrorIs(t, err, ErrInvalidLogin)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := f.gate.LoginExisting(ctx, " ", "difference-engine")
		_, ok := IsValidation(err)
		require.True(t, ok, "got %v", err)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := f.gate.LoginExisting(ctx, "Charles Babbage", "")
		require.ErrorIs(t, err, ErrInvalidLogin)

		_, err = f.gate.LoginExisting(ctx, "Nobody", "")
		require.ErrorIs(t, err, ErrInvalidLogin)
	})

	t.Run("accepts any spelling of the name", func(t *testing.T) {
		s, err := f.gate.LoginExisting(ctx, "CHARLES  babbage", "difference-engine")
		require.NoError(t, err)
		require.Equal(t, res.Profile.ID, s.ProfileID)
	})
}

func TestLoginExisting_PersonalSecretIsNotTeamPassphrase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.gate.AuthGate(ctx, "Ada", teamPassphrase)
	require.NoError(t, err)

	// Same string as the team passphrase, stored as a password.
	_, err = f.gate.SetPersonalSecret(ctx, res.TempToken, "", teamPassphrase)
	require.NoError(t, err)

	p, err := f.store.Profiles().GetProfileByID(ctx, res.Profile.ID)
	require.NoError(t, err)
	require.NotEqual(t, f.cohort.TeamPassphraseHash, p.PasswordHash)
	require.False(t, matchSecret(cryptox.KindTeamPassphrase, teamPassphrase, p.PasswordHash))

	_, err = f.gate.LoginExisting(ctx, "Ada", teamPassphrase)
	require.NoError(t, err)
}

func TestCurrentProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.gate.AuthGate(ctx, "Ada", teamPassphrase)
	require.NoError(t, err)

	p, err := f.gate.CurrentProfile(ctx, res.Profile.ID)
	require.NoError(t, err)
	require.Equal(t, "ada", p.NameSlug)
	require.False(t, p.HasSecret())

	_, err = f.gate.CurrentProfile(ctx, "missing")
	require.ErrorIs(t, err, ErrUnauthorized)
}
