package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrInsufficientInventory aborts a dose log when the medication's
	// remaining inventory cannot cover one dose.
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrAlreadyLogged means a dose log entry already exists for the same
	// date, medication and slot. Logging again must not decrement inventory.
	ErrAlreadyLogged = errors.New("dose already logged")

	// ErrRegistrationUnavailable means no delivery token could be minted
	// because the client supplied no registration handle or the push
	// platform is not configured.
	ErrRegistrationUnavailable = errors.New("push registration unavailable")

	// ErrStoreUnavailable wraps transient I/O failures from the document store.
	ErrStoreUnavailable = errors.New("store unavailable")
)
