package service

import "errors"

// Service layer errors. Handlers map these onto HTTP status codes and the
// bilingual message table.
var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("not authorized")

	// Auth
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrRegistrationsClosed = errors.New("registrations are closed")
	ErrSessionExpired      = errors.New("session expired or revoked")
	ErrVerificationInvalid = errors.New("verification token invalid or expired")
	ErrNotVerified         = errors.New("email not verified")

	// Mutations
	ErrStatusConflict = errors.New("status changed concurrently")
	ErrInvalidStatus  = errors.New("invalid status value")
	ErrInvalidScore   = errors.New("score out of range")
	ErrQuotaExceeded  = errors.New("project quota exceeded")
	ErrFileTooLarge   = errors.New("file exceeds maximum size")
	ErrOwnRoleChange  = errors.New("cannot change own role")
	ErrBlobOrphaned   = errors.New("document removed but blob cleanup failed")
	ErrUnknownRole    = errors.New("unknown role value")
)
