package postgres

import (
	"testing"
	"time"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

const (
	comicID1  = "11111111-1111-1111-1111-111111111111"
	comicID2  = "22222222-2222-2222-2222-222222222222"
	missingID = "00000000-0000-0000-0000-000000000001"
)

func makeComic(t *testing.T, id, name string) domain.Comic {
	t.Helper()
	price, err := domain.MoneyFromString("4990", "CLP")
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	comic, err := domain.NewComic(id, name, "first printing", price)
	if err != nil {
		t.Fatalf("comic: %v", err)
	}
	return comic
}

func makeReservation(t *testing.T, id string, userID int64, comicID string, created time.Time) domain.Reservation {
	t.Helper()
	res, err := domain.NewReservation(id, userID, comicID, created)
	if err != nil {
		t.Fatalf("reservation: %v", err)
	}
	if err := res.SetExpiry(created.Add(48 * time.Hour)); err != nil {
		t.Fatalf("expiry: %v", err)
	}
	return res
}
