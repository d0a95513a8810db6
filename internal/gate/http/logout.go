package http

import (
	"net/http"

	"github.com/aussiebroadwan/cohortgate/pkg/gatesdk"
	"github.com/aussiebroadwan/cohortgate/pkg/httpx"
)

// LogoutHandler godoc
//
//	@Summary		Logout
//	@Description	Expires the session cookie. Tokens are stateless, so a copied token stays valid until it expires.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	gatesdk.MessageResponse	"message"
//	@Router			/logout [post].
func LogoutHandler(cookie CookieConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie.clearSessionCookie(w)
		httpx.WriteJSON(w, http.StatusOK, gatesdk.MessageResponse{Message: "logged out"})
	}
}
