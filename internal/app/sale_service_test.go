package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dizzy-lib/comic-collector-system/internal/clock"
	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

func TestSaleService_Purchase(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	makeSvc := func(repo *fakeRepo) *SaleService {
		return NewSaleService(repo, clock.NewFixed(now))
	}

	t.Run("holder purchase retires the hold and removes the comic", func(t *testing.T) {
		repo := newFakeRepo().
			addComic(testComic(t, "comic-1")).
			addUser(testUser(t, 7)).
			addReservation(activeHold(t, "res-1", 7, "comic-1", now, now.Add(48*time.Hour)))
		svc := makeSvc(repo)

		sale, err := svc.Purchase(context.Background(), 7, "comic-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sale.ComicName != "Comic comic-1" {
			t.Fatalf("expected comic name captured, got %q", sale.ComicName)
		}
		final, err := sale.FinalPrice()
		if err != nil {
			t.Fatalf("final price: %v", err)
		}
		if got := final.String(); got != "CLP 1190" {
			t.Fatalf("expected CLP 1190, got %s", got)
		}

		if len(repo.sales) != 1 {
			t.Fatalf("expected exactly one sale, got %d", len(repo.sales))
		}
		if repo.reservations["res-1"].IsActive() {
			t.Fatalf("expected hold retired")
		}
		if _, ok := repo.comics["comic-1"]; ok {
			t.Fatalf("expected comic removed from catalog")
		}
	})

	t.Run("walk-up purchase without a hold", func(t *testing.T) {
		repo := newFakeRepo().addComic(testComic(t, "comic-1")).addUser(testUser(t, 7))
		svc := makeSvc(repo)

		if _, err := svc.Purchase(context.Background(), 7, "comic-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(repo.sales) != 1 {
			t.Fatalf("expected one sale, got %d", len(repo.sales))
		}
	})

	t.Run("someone else's hold blocks", func(t *testing.T) {
		repo := newFakeRepo().
			addComic(testComic(t, "comic-1")).
			addUser(testUser(t, 8)).
			addReservation(activeHold(t, "res-1", 7, "comic-1", now, now.Add(48*time.Hour)))
		svc := makeSvc(repo)

		if _, err := svc.Purchase(context.Background(), 8, "comic-1"); !errors.Is(err, domain.ErrComicUnavailable) {
			t.Fatalf("expected ErrComicUnavailable, got %v", err)
		}
		if len(repo.sales) != 0 {
			t.Fatalf("expected no sale, got %d", len(repo.sales))
		}
		if _, ok := repo.comics["comic-1"]; !ok {
			t.Fatalf("expected comic untouched")
		}
	})

	t.Run("persistence failure wraps in ErrSaleNotProcessable", func(t *testing.T) {
		boom := errors.New("disk full")
		repo := newFakeRepo().addComic(testComic(t, "comic-1")).addUser(testUser(t, 7))
		repo.failCreateSale = boom
		svc := makeSvc(repo)

		_, err := svc.Purchase(context.Background(), 7, "comic-1")
		if !errors.Is(err, domain.ErrSaleNotProcessable) {
			t.Fatalf("expected ErrSaleNotProcessable, got %v", err)
		}
		if !errors.Is(err, boom) {
			t.Fatalf("expected cause preserved, got %v", err)
		}
	})

	t.Run("hold retirement failure wraps in ErrSaleNotProcessable", func(t *testing.T) {
		boom := errors.New("write refused")
		repo := newFakeRepo().
			addComic(testComic(t, "comic-1")).
			addUser(testUser(t, 7)).
			addReservation(activeHold(t, "res-1", 7, "comic-1", now, now.Add(48*time.Hour)))
		repo.failUpdateReservation = boom
		svc := makeSvc(repo)

		_, err := svc.Purchase(context.Background(), 7, "comic-1")
		if !errors.Is(err, domain.ErrSaleNotProcessable) || !errors.Is(err, boom) {
			t.Fatalf("expected wrapped ErrSaleNotProcessable, got %v", err)
		}
	})

	t.Run("unknown comic or user", func(t *testing.T) {
		repo := newFakeRepo().addComic(testComic(t, "comic-1")).addUser(testUser(t, 7))
		svc := makeSvc(repo)

		if _, err := svc.Purchase(context.Background(), 7, "ghost"); !errors.Is(err, domain.ErrComicNotFound) {
			t.Fatalf("expected ErrComicNotFound, got %v", err)
		}
		if _, err := svc.Purchase(context.Background(), 99, "comic-1"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("missing arguments", func(t *testing.T) {
		svc := makeSvc(newFakeRepo())
		if _, err := svc.Purchase(context.Background(), 0, "comic-1"); !errors.Is(err, domain.ErrInvalidSale) {
			t.Fatalf("expected ErrInvalidSale, got %v", err)
		}
		if _, err := svc.Purchase(context.Background(), 7, ""); !errors.Is(err, domain.ErrInvalidSale) {
			t.Fatalf("expected ErrInvalidSale, got %v", err)
		}
	})
}

func TestSaleService_IsAvailableForPurchase(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo().
		addReservation(activeHold(t, "res-1", 7, "comic-1", now, now.Add(48*time.Hour)))
	svc := NewSaleService(repo, clock.NewFixed(now))

	t.Run("own hold does not block", func(t *testing.T) {
		ok, err := svc.IsAvailableForPurchase(context.Background(), "comic-1", 7)
		if err != nil || !ok {
			t.Fatalf("expected true, got %v err=%v", ok, err)
		}
	})

	t.Run("foreign hold blocks", func(t *testing.T) {
		ok, err := svc.IsAvailableForPurchase(context.Background(), "comic-1", 8)
		if err != nil || ok {
			t.Fatalf("expected false, got %v err=%v", ok, err)
		}
	})

	t.Run("no holds at all", func(t *testing.T) {
		ok, err := svc.IsAvailableForPurchase(context.Background(), "comic-2", 8)
		if err != nil || !ok {
			t.Fatalf("expected true, got %v err=%v", ok, err)
		}
	})

	t.Run("absent arguments yield false", func(t *testing.T) {
		if ok, _ := svc.IsAvailableForPurchase(context.Background(), "", 7); ok {
			t.Fatalf("expected false for empty comic")
		}
		if ok, _ := svc.IsAvailableForPurchase(context.Background(), "comic-1", 0); ok {
			t.Fatalf("expected false for zero user")
		}
	})
}

func TestSaleService_FindActiveHoldFor(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo().
		addReservation(activeHold(t, "res-1", 7, "comic-1", now, now.Add(48*time.Hour)))
	svc := NewSaleService(repo, clock.NewFixed(now))

	hold, err := svc.FindActiveHoldFor(context.Background(), 7, "comic-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hold == nil || hold.ID != "res-1" {
		t.Fatalf("expected res-1, got %+v", hold)
	}

	none, err := svc.FindActiveHoldFor(context.Background(), 8, "comic-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil for another user, got %+v", none)
	}
}
