package http

import (
	"encoding/json"
	"net/http"

	"github.com/tcsservices/loginportal/internal/portal/service"
	"github.com/tcsservices/loginportal/pkg/httpx"
)

// ManifestHandler serves POST /v1/sessions/manifest: the single-session
// arbitration endpoint. A 200 means this session now holds the manifest;
// a 403 means a conflicting session was just evicted and the client
// should retry.
type ManifestHandler struct {
	Sessions *service.SessionService
	Cookies  *CookieWriter
}

type manifestRequest struct {
	PowerUnit    string `json:"powerUnit" validate:"required"`
	ManifestDate string `json:"manifestDate" validate:"required,len=8,numeric"`
}

func (h *ManifestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req manifestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{"invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{"powerUnit and MMDDYYYY manifestDate are required"})
		return
	}

	username := cookieValue(r, cookieUsername)
	access := cookieValue(r, cookieAccessToken)
	refresh := cookieValue(r, cookieRefreshToken)

	_, pair, err := h.Sessions.CheckManifestAccess(r.Context(), username, req.PowerUnit, req.ManifestDate, access, refresh)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Tokens may have rotated while claiming.
	h.Cookies.WriteTokens(w, pair)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, messageResponse{"manifest access granted"})
}
