package services

import "errors"

// Sentinel errors returned by the service layer. Controllers translate them
// to HTTP statuses with errors.Is; anything unrecognized maps to 500 with
// the underlying message surfaced for diagnostics.
var (
	ErrValidation    = errors.New("validation failed")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrEmailTaken    = errors.New("email already used")
	ErrUsernameTaken = errors.New("username already used")
)
