package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aussiebroadwan/cohortgate/internal/gate/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapConstraint(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "profiles_slug_cohort_key"}
	require.ErrorIs(t, mapConstraint(unique), store.ErrAlreadyExists)
	require.ErrorIs(t, mapConstraint(fmt.Errorf("insert: %w", unique)), store.ErrAlreadyExists)

	fk := &pgconn.PgError{Code: "23503"}
	require.Same(t, fk, mapConstraint(fk))

	require.NoError(t, mapConstraint(nil))
}

func TestMapNotFound(t *testing.T) {
	require.ErrorIs(t, mapNotFound(pgx.ErrNoRows), store.ErrNotFound)

	other := errors.New("conn reset")
	require.Equal(t, other, mapNotFound(other))
}

func TestExpectOne(t *testing.T) {
	require.ErrorIs(t, expectOne(pgconn.NewCommandTag("UPDATE 0"), nil), store.ErrNotFound)
	require.NoError(t, expectOne(pgconn.NewCommandTag("UPDATE 1"), nil))

	boom := errors.New("boom")
	require.ErrorIs(t, expectOne(pgconn.CommandTag{}, boom), boom)
}

func TestOptional(t *testing.T) {
	require.Nil(t, optional(""))
	require.Equal(t, "x", deref(optional("x")))
	require.Equal(t, "", deref(nil))
}
