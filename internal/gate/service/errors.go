package service

import "errors"

var (
	// ErrUnauthorized covers every auth gate and temp token failure. The
	// caller never learns which check failed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidLogin covers unknown name, no secret set and wrong secret
	// on the existing-login path.
	ErrInvalidLogin = errors.New("invalid name or secret")

	// ErrInvalidToken wraps the jwtx cause of a failed verification.
	ErrInvalidToken = errors.New("invalid token")

	ErrNoActiveCohort        = errors.New("no active cohort")
	ErrMultipleActiveCohorts = errors.New("more than one active cohort")
	ErrSlugContention        = errors.New("slug contention: gave up after repeated conflicts")
	ErrSlugExhausted         = errors.New("no free slug suffix")
	ErrSameTokenKeys         = errors.New("temp and session token keys must differ")
)

// ValidationError is a caller mistake whose message is safe to return as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
