package http

import (
	"net/http"

	"github.com/tcsservices/loginportal/internal/portal/service"
	"github.com/tcsservices/loginportal/pkg/httpx"
	"github.com/tcsservices/loginportal/pkg/slogx"
)

// LogoutHandler serves POST /v1/sessions/logout. Cookies are always
// expired, even when no matching server-side session exists, so repeated
// logouts are harmless.
type LogoutHandler struct {
	Sessions *service.SessionService
	Cookies  *CookieWriter
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	username := cookieValue(r, cookieUsername)
	access := cookieValue(r, cookieAccessToken)
	refresh := cookieValue(r, cookieRefreshToken)

	if err := h.Sessions.Logout(r.Context(), username, access, refresh); err != nil {
		// Best-effort: the client still loses its cookies.
		slogx.FromContext(r.Context()).Error("logout cleanup failed", "error", err)
	}

	h.Cookies.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, messageResponse{"logged out"})
}
