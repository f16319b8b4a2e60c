package http

import (
	"errors"
	"net/http"

	"github.com/tcsservices/loginportal/internal/portal/service"
	"github.com/tcsservices/loginportal/pkg/httpx"
	"github.com/tcsservices/loginportal/pkg/slogx"
)

type messageResponse struct {
	Message string `json:"message"`
}

// writeServiceError maps the service taxonomy onto status codes. Messages
// are short and fixed; internal detail stays in the logs.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteJSON(w, http.StatusUnauthorized, messageResponse{"invalid username or password"})
	case errors.Is(err, service.ErrNoPermissions):
		httpx.WriteJSON(w, http.StatusForbidden, messageResponse{"no companies or modules assigned"})
	case errors.Is(err, service.ErrTokenExpired):
		httpx.WriteJSON(w, http.StatusUnauthorized, messageResponse{"token expired"})
	case errors.Is(err, service.ErrTokenMalformed):
		httpx.WriteJSON(w, http.StatusUnauthorized, messageResponse{"invalid token"})
	case errors.Is(err, service.ErrRefreshDenied):
		httpx.WriteJSON(w, http.StatusUnauthorized, messageResponse{"session expired, please log in again"})
	case errors.Is(err, service.ErrNotAuthenticated):
		httpx.WriteJSON(w, http.StatusUnauthorized, messageResponse{"not authenticated"})
	case errors.Is(err, service.ErrSessionConflict):
		httpx.WriteJSON(w, http.StatusForbidden, messageResponse{"manifest was held by another session; that session has been terminated, please retry"})
	case errors.Is(err, service.ErrValidation):
		httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{"invalid request"})
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, messageResponse{"internal error"})
	}
}
