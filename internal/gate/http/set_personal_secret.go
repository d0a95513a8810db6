package http

import (
	"net/http"

	"github.com/aussiebroadwan/cohortgate/internal/gate/service"
	"github.com/aussiebroadwan/cohortgate/pkg/gatesdk"
	"github.com/aussiebroadwan/cohortgate/pkg/httpx"
	"github.com/aussiebroadwan/cohortgate/pkg/slogx"
)

type SetPersonalSecretHandler struct {
	GateService *service.GateService
	Cookie      CookieConfig
}

// ServeHTTP godoc
//
//	@Summary		Set Personal Secret
//	@Description	Stores a PIN or password for the profile named by the temp token and starts a session.
//	@Description	When both are sent the PIN is stored. The session token is set as an HttpOnly cookie.
//	@Tags			Gate
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		gatesdk.SetPersonalSecretRequest	true	"pin or password"
//	@Success		200		{object}	gatesdk.MessageResponse				"message"
//	@Failure		400		{object}	gatesdk.APIError					"neither pin nor password"
//	@Failure		401		{object}	gatesdk.APIError					"missing, invalid, expired or reused temp token"
//	@Failure		429		{object}	gatesdk.APIError					"rate limited"
//	@Failure		500		{object}	gatesdk.APIError					"persistence failure"
//	@Router			/set-personal-secret [post].
func (h *SetPersonalSecretHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token, _ := httpx.BearerToken(r)

	// A malformed body counts as empty; the service checks the token first,
	// so a bad token is a 401 whatever the body holds.
	var req gatesdk.SetPersonalSecretRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		slogx.FromContext(ctx).Debug("bad request body", "err", err)
		req = gatesdk.SetPersonalSecretRequest{}
	}

	session, err := h.GateService.SetPersonalSecret(ctx, token, req.PIN, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "set personal secret")
		return
	}

	h.Cookie.setSessionCookie(w, session.Token, h.GateService.Tokens.SessionTTL())
	httpx.WriteJSON(w, http.StatusOK, gatesdk.MessageResponse{Message: "ok"})
}
