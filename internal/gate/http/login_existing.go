package http

import (
	"net/http"

	"github.com/aussiebroadwan/cohortgate/internal/gate/service"
	"github.com/aussiebroadwan/cohortgate/pkg/gatesdk"
	"github.com/aussiebroadwan/cohortgate/pkg/httpx"
)

type LoginExistingHandler struct {
	GateService *service.GateService
	Cookie      CookieConfig
}

// ServeHTTP godoc
//
//	@Summary		Returning Student Login
//	@Description	Signs in with a name and the personal secret set earlier. Unknown name, unset secret, empty secret
//	@Description	and wrong secret all return the same 401.
//	@Tags			Gate
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.LoginExistingRequest	true	"name and personal secret"
//	@Success		200		{object}	gatesdk.MessageResponse			"message"
//	@Failure		400		{object}	gatesdk.APIError				"missing name or malformed body"
//	@Failure		401		{object}	gatesdk.APIError				"invalid name or secret"
//	@Failure		429		{object}	gatesdk.APIError				"rate limited"
//	@Failure		500		{object}	gatesdk.APIError				"no single active cohort"
//	@Router			/login-existing [post].
func (h *LoginExistingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req gatesdk.LoginExistingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, err := h.GateService.LoginExisting(r.Context(), req.Name, req.Secret)
	if err != nil {
		writeServiceError(w, r, err, "login existing")
		return
	}

	h.Cookie.setSessionCookie(w, session.Token, h.GateService.Tokens.SessionTTL())
	httpx.WriteJSON(w, http.StatusOK, gatesdk.MessageResponse{Message: "login successful"})
}
