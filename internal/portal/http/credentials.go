package http

import (
	"net/http"

	"github.com/tcsservices/loginportal/internal/portal/service"
	"github.com/tcsservices/loginportal/pkg/httpx"
)

// CredentialsHandler serves POST /v1/sessions/credentials, the silent
// re-auth flow. Everything it needs arrives as cookies from a prior
// session; the return flag must be present or the flow is refused before
// any token work happens.
type CredentialsHandler struct {
	Sessions *service.SessionService
	Cookies  *CookieWriter
}

func (h *CredentialsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if cookieValue(r, cookieReturn) != "true" {
		httpx.WriteJSON(w, http.StatusUnauthorized, messageResponse{"not authenticated"})
		return
	}

	username := cookieValue(r, cookieUsername)
	access := cookieValue(r, cookieAccessToken)
	refresh := cookieValue(r, cookieRefreshToken)

	grant, err := h.Sessions.Credentials(r.Context(), username, access, refresh)
	if err != nil {
		h.Cookies.Clear(w)
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.WriteSession(w, grant.Profile, grant.Tokens)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, newProfileResponse(grant.Profile))
}
