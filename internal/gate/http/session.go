package http

import (
	"net/http"

	"github.com/aussiebroadwan/cohortgate/internal/gate/service"
	"github.com/aussiebroadwan/cohortgate/pkg/gatesdk"
	"github.com/aussiebroadwan/cohortgate/pkg/httpx"
)

type SessionHandler struct {
	GateService *service.GateService
}

// ServeHTTP godoc
//
//	@Summary		Current Session
//	@Description	Returns the profile behind the session token, read from the sb-access-token cookie
//	@Description	or an Authorization bearer header.
//	@Tags			Session
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	gatesdk.ProfileResponse	"profile"
//	@Failure		401	{object}	gatesdk.APIError		"missing or invalid session token"
//	@Failure		500	{object}	gatesdk.APIError		"lookup failure"
//	@Router			/session [get].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, err := h.GateService.CurrentProfile(r.Context(), httpx.SubjectFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err, "current session")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.ProfileResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		NameSlug:    p.NameSlug,
		CohortID:    p.CohortID,
		Role:        p.Role,
		AuthType:    p.AuthType,
		HasSecret:   p.HasSecret(),
	})
}
