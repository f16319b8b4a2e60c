package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/tcsservices/loginportal/internal/portal/domain"
	"github.com/tcsservices/loginportal/internal/portal/service"
	"github.com/tcsservices/loginportal/pkg/httpx"
)

var validate = validator.New()

// LoginHandler serves POST /v1/sessions/login.
type LoginHandler struct {
	Sessions *service.SessionService
	Cookies  *CookieWriter
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileResponse struct {
	Username    string   `json:"username"`
	Permissions bool     `json:"permissions"`
	PowerUnit   string   `json:"powerUnit,omitempty"`
	Company     string   `json:"company"`
	Companies   []string `json:"companies"`
	Modules     []string `json:"modules"`
}

func newProfileResponse(p domain.UserProfile) profileResponse {
	return profileResponse{
		Username:    p.Username,
		Permissions: p.Permissions,
		PowerUnit:   p.PowerUnit,
		Company:     p.ActiveCompany(),
		Companies:   p.Companies,
		Modules:     p.Modules,
	}
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{"invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{"username and password are required"})
		return
	}

	grant, err := h.Sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.WriteSession(w, grant.Profile, grant.Tokens)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, newProfileResponse(grant.Profile))
}
