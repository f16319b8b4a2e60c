package http

import (
	"encoding/json"
	"net/http"

	"github.com/tcsservices/loginportal/internal/portal/service"
	"github.com/tcsservices/loginportal/pkg/httpx"
)

// CompanyHandler serves POST /v1/sessions/company: swaps the caller's
// active company and re-syncs the company cookie.
type CompanyHandler struct {
	Sessions *service.SessionService
	Cookies  *CookieWriter
}

type companyRequest struct {
	Company string `json:"company" validate:"required"`
}

func (h *CompanyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{"invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{"company is required"})
		return
	}

	username := cookieValue(r, cookieUsername)
	access := cookieValue(r, cookieAccessToken)
	refresh := cookieValue(r, cookieRefreshToken)

	// The swap is only for live sessions, so the pair is validated (and
	// possibly rotated) first.
	grant, err := h.Sessions.Credentials(r.Context(), username, access, refresh)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	profile, err := h.Sessions.SetActiveCompany(r.Context(), username, req.Company)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.WriteSession(w, profile, grant.Tokens)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, newProfileResponse(profile))
}
