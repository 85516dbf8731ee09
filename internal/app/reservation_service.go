package app

import (
	"context"
	"time"

	"github.com/dizzy-lib/comic-collector-system/internal/clock"
	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// ReservationRepository is the persistence surface the reservation service
// needs. WithTx must serialize the closure against concurrent writers; row
// lookups suffixed ForUpdate must lock the row for the transaction so that
// an availability check and the write that follows it observe the same state.
type ReservationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetComicForUpdate(ctx context.Context, comicID string) (domain.Comic, error)
	GetUser(ctx context.Context, userID int64) (domain.User, error)
	GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error)
	FindByComic(ctx context.Context, comicID string) ([]domain.Reservation, error)
	FindByUser(ctx context.Context, userID int64) ([]domain.Reservation, error)
	FindActiveByComic(ctx context.Context, comicID string) ([]domain.Reservation, error)
	FindExpired(ctx context.Context, asOf time.Time) ([]domain.Reservation, error)
	CreateReservation(ctx context.Context, r domain.Reservation) error
	UpdateReservation(ctx context.Context, r domain.Reservation) error
}

// Business policy for holds. The entity knows none of this; the service owns
// the numbers.
const (
	defaultMaxActivePerUser = 3
	defaultCancelWindow     = 1 * time.Hour
	defaultHoldDuration     = 2 * 24 * time.Hour
)

type ReservationService struct {
	repo             ReservationRepository
	clock            clock.Clock
	maxActivePerUser int
	cancelWindow     time.Duration
	holdDuration     time.Duration
}

type ReservationServiceOption func(*ReservationService)

// WithHoldDuration overrides how long a new hold lasts.
func WithHoldDuration(d time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.holdDuration = d
		}
	}
}

// WithCancelWindow overrides the grace period for cancellation.
func WithCancelWindow(d time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.cancelWindow = d
		}
	}
}

// WithMaxActivePerUser overrides the per-user hold quota.
func WithMaxActivePerUser(n int) ReservationServiceOption {
	return func(s *ReservationService) {
		if n > 0 {
			s.maxActivePerUser = n
		}
	}
}

func NewReservationService(repo ReservationRepository, clk clock.Clock, opts ...ReservationServiceOption) *ReservationService {
	svc := &ReservationService{
		repo:             repo,
		clock:            clk,
		maxActivePerUser: defaultMaxActivePerUser,
		cancelWindow:     defaultCancelWindow,
		holdDuration:     defaultHoldDuration,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// CanReserve reports whether a reserve call for the same pair would succeed
// right now. Pure query, no side effects; absent arguments yield false.
func (s *ReservationService) CanReserve(ctx context.Context, userID int64, comicID string) (bool, error) {
	if userID == 0 || comicID == "" {
		return false, nil
	}

	activeForComic, err := s.repo.FindActiveByComic(ctx, comicID)
	if err != nil {
		return false, err
	}
	if len(activeForComic) > 0 {
		return false, nil
	}

	mine, err := s.ActiveReservationsOf(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(mine) >= s.maxActivePerUser {
		return false, nil
	}
	for _, r := range mine {
		if r.ComicID == comicID {
			return false, nil
		}
	}
	return true, nil
}

// Reserve creates a hold for the user on the comic. Every CanReserve
// condition is re-checked inside a transaction that locks the comic row, so
// two concurrent reserves (or a reserve racing a purchase) for the same
// comic cannot both succeed.
func (s *ReservationService) Reserve(ctx context.Context, userID int64, comicID string) (domain.Reservation, error) {
	if userID == 0 || comicID == "" {
		return domain.Reservation{}, domain.ErrInvalidReservation
	}

	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetComicForUpdate(txCtx, comicID); err != nil {
			return err
		}
		user, err := s.repo.GetUser(txCtx, userID)
		if err != nil {
			return err
		}

		activeForComic, err := s.repo.FindActiveByComic(txCtx, comicID)
		if err != nil {
			return err
		}
		if len(activeForComic) > 0 {
			return domain.ErrComicUnavailable
		}

		mine, err := s.activeOf(txCtx, user.ID)
		if err != nil {
			return err
		}
		if len(mine) >= s.maxActivePerUser {
			return domain.ErrReservationQuota
		}
		for _, r := range mine {
			if r.ComicID == comicID {
				return domain.ErrComicUnavailable
			}
		}

		reservation, err := domain.NewReservation(newID(), user.ID, comicID, now)
		if err != nil {
			return err
		}
		if err := reservation.SetExpiry(now.Add(s.holdDuration)); err != nil {
			return err
		}
		if err := s.repo.CreateReservation(txCtx, reservation); err != nil {
			return err
		}

		result = reservation
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

// SweepExpired transitions every aged-out ACTIVE hold to EXPIRED and returns
// the full set of reservations whose expiry has passed, including ones that
// were already EXPIRED going in. Idempotent: a second run with no time
// passing returns the same set and changes nothing.
func (s *ReservationService) SweepExpired(ctx context.Context) ([]domain.Reservation, error) {
	now := s.clock.Now()
	var swept []domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		expired, err := s.repo.FindExpired(txCtx, now)
		if err != nil {
			return err
		}
		for i := range expired {
			if !expired[i].IsActive() {
				continue
			}
			if err := expired[i].Deactivate(); err != nil {
				return err
			}
			if err := s.repo.UpdateReservation(txCtx, expired[i]); err != nil {
				return err
			}
		}
		swept = expired
		return nil
	})
	if err != nil {
		return nil, err
	}
	return swept, nil
}

// IsAvailable reports whether no one currently holds the comic.
func (s *ReservationService) IsAvailable(ctx context.Context, comicID string) (bool, error) {
	if comicID == "" {
		return false, nil
	}
	active, err := s.repo.FindActiveByComic(ctx, comicID)
	if err != nil {
		return false, err
	}
	return len(active) == 0, nil
}

// ActiveReservationsOf lists the user's ACTIVE holds. An absent user yields
// an empty list, not an error.
func (s *ReservationService) ActiveReservationsOf(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	if userID == 0 {
		return []domain.Reservation{}, nil
	}
	return s.activeOf(ctx, userID)
}

func (s *ReservationService) activeOf(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	all, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	active := make([]domain.Reservation, 0, len(all))
	for _, r := range all {
		if r.IsActive() {
			active = append(active, r)
		}
	}
	return active, nil
}

// Cancel releases a hold early. Cancellation is a short-window courtesy, not
// a general-purpose release: the reservation must still be ACTIVE and no
// older than the cancel window.
func (s *ReservationService) Cancel(ctx context.Context, reservationID string) error {
	if reservationID == "" {
		return domain.ErrInvalidID
	}

	now := s.clock.Now()
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		reservation, err := s.repo.GetReservationForUpdate(txCtx, reservationID)
		if err != nil {
			return err
		}
		if !reservation.IsActive() {
			return domain.ErrNotCancelable
		}
		if now.After(reservation.CreatedAt.Add(s.cancelWindow)) {
			return domain.ErrNotCancelable
		}
		if err := reservation.Deactivate(); err != nil {
			return err
		}
		return s.repo.UpdateReservation(txCtx, reservation)
	})
}
