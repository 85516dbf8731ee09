package domain

import (
	"fmt"
	"time"
)

type ReservationStatus string

const (
	ReservationStatusActive  ReservationStatus = "active"
	ReservationStatusExpired ReservationStatus = "expired"
)

// Reservation is a time-boxed exclusive claim on a comic by a user. It holds
// references (lookup keys), not ownership: the comic and user lifecycles are
// independent.
//
// The entity validates internal consistency (expiry never precedes creation,
// transitions happen once); the hold duration itself is reservation-service
// policy, so ExpiresAt stays unset until the service assigns it.
type Reservation struct {
	ID        string
	UserID    int64
	ComicID   string
	CreatedAt time.Time
	ExpiresAt time.Time // zero until assigned by the service
	Status    ReservationStatus
}

func NewReservation(id string, userID int64, comicID string, now time.Time) (Reservation, error) {
	if id == "" {
		return Reservation{}, fmt.Errorf("%w: missing id", ErrInvalidReservation)
	}
	if userID == 0 {
		return Reservation{}, fmt.Errorf("%w: missing user", ErrInvalidReservation)
	}
	if comicID == "" {
		return Reservation{}, fmt.Errorf("%w: missing comic", ErrInvalidReservation)
	}
	return Reservation{
		ID:        id,
		UserID:    userID,
		ComicID:   comicID,
		CreatedAt: now.UTC(),
		Status:    ReservationStatusActive,
	}, nil
}

// Activate transitions EXPIRED back to ACTIVE, resetting CreatedAt and
// clearing the expiry. The service must assign a fresh expiry afterwards.
func (r *Reservation) Activate(now time.Time) error {
	if r.Status == ReservationStatusActive {
		return fmt.Errorf("%w: reservation %s", ErrReservationActive, r.ID)
	}
	r.CreatedAt = now.UTC()
	r.ExpiresAt = time.Time{}
	r.Status = ReservationStatusActive
	return nil
}

// Deactivate transitions ACTIVE to EXPIRED, exactly once.
func (r *Reservation) Deactivate() error {
	if r.Status == ReservationStatusExpired {
		return fmt.Errorf("%w: reservation %s", ErrReservationExpired, r.ID)
	}
	r.Status = ReservationStatusExpired
	return nil
}

// SetExpiry records the service-computed expiry instant.
func (r *Reservation) SetExpiry(t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("%w: expiry must be set", ErrInvalidExpiry)
	}
	t = t.UTC()
	if t.Before(r.CreatedAt) {
		return fmt.Errorf("%w: %s precedes %s", ErrInvalidExpiry, t, r.CreatedAt)
	}
	r.ExpiresAt = t
	return nil
}

// IsActive reports whether the reservation currently claims its comic.
func (r Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// Less is the natural ordering for sorted storage: expiry ascending, ties
// broken by id.
func (r Reservation) Less(o Reservation) bool {
	if !r.ExpiresAt.Equal(o.ExpiresAt) {
		return r.ExpiresAt.Before(o.ExpiresAt)
	}
	return r.ID < o.ID
}
