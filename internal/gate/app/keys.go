package app

import (
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/cohortgate/pkg/cryptox"
)

var ErrMissingTokenSecret = errors.New("GATE_TEMP_TOKEN_SECRET and GATE_SESSION_TOKEN_SECRET are required outside dev")

// LoadTokenKeys returns the temp and session HMAC keys.
//
// Outside dev both secrets must be configured. In dev a missing secret is
// replaced by a random key that lives only as long as the process, so every
// restart invalidates all tokens. Length and distinctness are checked by the
// token service.
func LoadTokenKeys(cfg Config, logger *slog.Logger) (temp, session []byte, err error) {
	temp = []byte(cfg.Tokens.TempSecret)
	session = []byte(cfg.Tokens.SessionSecret)

	if len(temp) > 0 && len(session) > 0 {
		return temp, session, nil
	}
	if !cfg.IsDev() {
		return nil, nil, ErrMissingTokenSecret
	}

	if len(temp) == 0 {
		if temp, err = cryptox.RandomKey(cryptox.KeySize); err != nil {
			return nil, nil, err
		}
		logger.Warn("GATE_TEMP_TOKEN_SECRET not set, using an ephemeral key")
	}
	if len(session) == 0 {
		if session, err = cryptox.RandomKey(cryptox.KeySize); err != nil {
			return nil, nil, err
		}
		logger.Warn("GATE_SESSION_TOKEN_SECRET not set, using an ephemeral key")
	}
	logger.Warn("all existing tokens are now invalid due to key generation on startup")

	return temp, session, nil
}
