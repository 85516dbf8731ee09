package app

import (
	"context"
	"fmt"

	"github.com/dizzy-lib/comic-collector-system/internal/clock"
	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// SaleRepository is the persistence surface the sale service needs. The
// purchase path runs entirely inside WithTx: the sale record, the hold
// retirement and the comic removal commit or roll back together, so a
// partial purchase is never left behind.
type SaleRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetComicForUpdate(ctx context.Context, comicID string) (domain.Comic, error)
	GetUser(ctx context.Context, userID int64) (domain.User, error)
	FindActiveByComic(ctx context.Context, comicID string) ([]domain.Reservation, error)
	CreateSale(ctx context.Context, sale domain.Sale) error
	UpdateReservation(ctx context.Context, r domain.Reservation) error
	DeleteComic(ctx context.Context, comicID string) error
}

type SaleService struct {
	repo  SaleRepository
	clock clock.Clock
}

func NewSaleService(repo SaleRepository, clk clock.Clock) *SaleService {
	return &SaleService{repo: repo, clock: clk}
}

// CanPurchase reports whether a purchase by the user would succeed right
// now. Absent arguments yield false.
func (s *SaleService) CanPurchase(ctx context.Context, userID int64, comicID string) (bool, error) {
	if userID == 0 || comicID == "" {
		return false, nil
	}
	return s.IsAvailableForPurchase(ctx, comicID, userID)
}

// IsAvailableForPurchase is true when the comic has no active holds, or when
// the only active hold belongs to the requesting user: your own hold does
// not block you, anyone else's does.
func (s *SaleService) IsAvailableForPurchase(ctx context.Context, comicID string, userID int64) (bool, error) {
	if comicID == "" || userID == 0 {
		return false, nil
	}
	active, err := s.repo.FindActiveByComic(ctx, comicID)
	if err != nil {
		return false, err
	}
	if len(active) == 0 {
		return true, nil
	}
	for _, r := range active {
		if r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// FindActiveHoldFor returns the user's own ACTIVE reservation on the comic,
// or nil when there is none.
func (s *SaleService) FindActiveHoldFor(ctx context.Context, userID int64, comicID string) (*domain.Reservation, error) {
	if userID == 0 || comicID == "" {
		return nil, nil
	}
	active, err := s.repo.FindActiveByComic(ctx, comicID)
	if err != nil {
		return nil, err
	}
	for i := range active {
		if active[i].UserID == userID {
			return &active[i], nil
		}
	}
	return nil, nil
}

// Purchase completes a sale. A walk-up purchase with no prior hold is valid;
// the buyer's own hold is honored and retired once the sale is saved; a hold
// by someone else blocks with ErrComicUnavailable. The sold comic is removed
// from the catalog (single-copy inventory). Persistence failures after the
// checks are wrapped in ErrSaleNotProcessable.
func (s *SaleService) Purchase(ctx context.Context, userID int64, comicID string) (domain.Sale, error) {
	if userID == 0 || comicID == "" {
		return domain.Sale{}, domain.ErrInvalidSale
	}

	now := s.clock.Now()
	var result domain.Sale

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		comic, err := s.repo.GetComicForUpdate(txCtx, comicID)
		if err != nil {
			return err
		}
		user, err := s.repo.GetUser(txCtx, userID)
		if err != nil {
			return err
		}

		active, err := s.repo.FindActiveByComic(txCtx, comicID)
		if err != nil {
			return err
		}
		var hold *domain.Reservation
		for i := range active {
			if active[i].UserID == user.ID {
				hold = &active[i]
				break
			}
		}
		if len(active) > 0 && hold == nil {
			return domain.ErrComicUnavailable
		}

		sale, err := domain.NewSale(newID(), user.ID, comic, now)
		if err != nil {
			return err
		}

		// Checks are done; from here every step is persistence. Sale
		// success triggers hold retirement, not the other way around.
		if err := s.repo.CreateSale(txCtx, sale); err != nil {
			return notProcessable("save sale", err)
		}
		if hold != nil {
			if err := hold.Deactivate(); err != nil {
				return notProcessable("retire hold", err)
			}
			if err := s.repo.UpdateReservation(txCtx, *hold); err != nil {
				return notProcessable("retire hold", err)
			}
		}
		if err := s.repo.DeleteComic(txCtx, comic.ID); err != nil {
			return notProcessable("remove comic", err)
		}

		result = sale
		return nil
	})
	if err != nil {
		return domain.Sale{}, err
	}
	return result, nil
}

func notProcessable(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrSaleNotProcessable, step, err)
}
