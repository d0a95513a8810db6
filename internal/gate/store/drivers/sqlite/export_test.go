package sqlite

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/cohortgate/internal/gate/store"
)

// RawActivate flips is_active without clearing other cohorts first.
func RawActivate(ctx context.Context, tx store.Tx, id string) error {
	t, ok := tx.(*txStore)
	if !ok {
		return errors.New("not a sqlite tx")
	}
	_, err := t.tx.ExecContext(ctx, `UPDATE cohorts SET is_active = 1 WHERE id = ?`, id)
	return err
}
