package http

import (
	"net/http"

	"github.com/aussiebroadwan/cohortgate/internal/gate/service"
	"github.com/aussiebroadwan/cohortgate/pkg/gatesdk"
	"github.com/aussiebroadwan/cohortgate/pkg/httpx"
)

type AuthGateHandler struct {
	GateService *service.GateService
}

// ServeHTTP godoc
//
//	@Summary		Team Passphrase Gate
//	@Description	Checks the team passphrase of the active cohort and resolves the name to a profile,
//	@Description	creating it on first use. Returns a temp token valid for five minutes. No cookie is set.
//	@Tags			Gate
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.AuthGateRequest		true	"name and team passphrase"
//	@Success		200		{object}	gatesdk.AuthGateResponse	"status, mode, temp_token"
//	@Failure		400		{object}	gatesdk.APIError			"missing name or passphrase"
//	@Failure		401		{object}	gatesdk.APIError			"wrong passphrase"
//	@Failure		429		{object}	gatesdk.APIError			"rate limited"
//	@Failure		500		{object}	gatesdk.APIError			"no single active cohort"
//	@Router			/auth-gate [post].
func (h *AuthGateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req gatesdk.AuthGateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.GateService.AuthGate(r.Context(), req.Name, req.Passphrase)
	if err != nil {
		writeServiceError(w, r, err, "auth gate")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.AuthGateResponse{
		Status:    "ok",
		Mode:      string(res.Mode),
		TempToken: res.TempToken,
	})
}
