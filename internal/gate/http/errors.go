package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/cohortgate/internal/gate/service"
	"github.com/aussiebroadwan/cohortgate/pkg/gatesdk"
	"github.com/aussiebroadwan/cohortgate/pkg/httpx"
	"github.com/aussiebroadwan/cohortgate/pkg/slogx"
)

// writeServiceError maps a service error to exactly one response. Anything
// unrecognised is a 500 whose cause stays in the log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	log := slogx.FromContext(r.Context())

	if ve, ok := service.IsValidation(err); ok {
		gatesdk.NewAPIError(http.StatusBadRequest, ve.Message).WriteError(w)
		return
	}

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		gatesdk.ErrUnauthorized.WriteError(w)
	case errors.Is(err, service.ErrInvalidLogin):
		gatesdk.ErrInvalidLogin.WriteError(w)
	case errors.Is(err, service.ErrNoActiveCohort),
		errors.Is(err, service.ErrMultipleActiveCohorts):
		log.Error(op+": cohort misconfigured", "err", err)
		gatesdk.ErrServerError.WriteError(w)
	default:
		log.Error(op+" failed", "err", err)
		gatesdk.ErrServerError.WriteError(w)
	}
}

// decodeBody reads a JSON body, writing a 400 itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		slogx.FromContext(r.Context()).Debug("bad request body", "err", err)
		gatesdk.ErrInvalidBody.WriteError(w)
		return false
	}
	return true
}
