package domain

import "errors"

// Failure taxonomy surfaced to callers. Each maps to a distinct HTTP status
// at the API layer so clients can tell "doesn't exist" from "not allowed"
// from "wrong state".
var (
	ErrNotFound           = errors.New("not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrBookingLocked      = errors.New("confirmed booking cannot be modified")
	ErrAlreadyPaid        = errors.New("payment already exists for booking")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
