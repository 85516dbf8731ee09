package domain

import "errors"

var (
	// Validation: caller errors, surfaced immediately, never retried.
	ErrInvalidReservation = errors.New("invalid reservation")
	ErrInvalidExpiry      = errors.New("expiry precedes reservation creation")
	ErrInvalidSale        = errors.New("invalid sale")
	ErrInvalidComic       = errors.New("invalid comic")
	ErrInvalidUser        = errors.New("invalid user")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrCurrencyMismatch   = errors.New("currency mismatch")
	ErrInvalidID          = errors.New("invalid id")

	// State conflicts: business-rule refusals, retrying without changed
	// conditions repeats the same outcome.
	ErrReservationActive  = errors.New("reservation already active")
	ErrReservationExpired = errors.New("reservation already expired")
	ErrComicUnavailable   = errors.New("comic unavailable")
	ErrReservationQuota   = errors.New("reservation quota exceeded")
	ErrNotCancelable      = errors.New("reservation not cancelable")
	ErrComicNotRemovable  = errors.New("comic has reservations or sales")
	ErrUserNotRemovable   = errors.New("user has active reservations or recent sales")
	ErrEmailTaken         = errors.New("email already registered")

	// Not found: stale or nonexistent references.
	ErrReservationNotFound = errors.New("reservation not found")
	ErrComicNotFound       = errors.New("comic not found")
	ErrUserNotFound        = errors.New("user not found")

	// Processing: wraps an underlying persistence failure mid-purchase.
	// The caller may retry the whole purchase from scratch.
	ErrSaleNotProcessable = errors.New("sale not processable")
)
