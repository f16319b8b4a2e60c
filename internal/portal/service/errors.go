package service

import "errors"

// Failure taxonomy for the session core. The HTTP layer maps these onto
// status codes; nothing above this package matches on error strings.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNoPermissions      = errors.New("no_permissions")
	ErrTokenExpired       = errors.New("token_expired")
	ErrTokenMalformed     = errors.New("token_malformed")
	ErrRefreshDenied      = errors.New("refresh_denied")
	ErrSessionConflict    = errors.New("session_conflict")
	ErrSessionPersistence = errors.New("session_persistence_failure")
	ErrValidation         = errors.New("validation_error")
	ErrNotAuthenticated   = errors.New("not_authenticated")
)
