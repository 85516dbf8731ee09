package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// saleTaxRate is the fixed tax applied on top of the unit price.
var saleTaxRate = decimal.RequireFromString("0.19")

// Sale records a completed purchase. The unit price is captured at sale time
// (the comic row is removed by the sale); the final price stays derived, not
// stored: price plus tax, computed at read time.
type Sale struct {
	ID         string
	UserID     int64
	ComicID    string
	ComicName  string
	UnitPrice  Money
	OccurredAt time.Time
}

func NewSale(id string, userID int64, comic Comic, now time.Time) (Sale, error) {
	if id == "" {
		return Sale{}, fmt.Errorf("%w: missing id", ErrInvalidSale)
	}
	if userID == 0 {
		return Sale{}, fmt.Errorf("%w: missing user", ErrInvalidSale)
	}
	if comic.ID == "" {
		return Sale{}, fmt.Errorf("%w: missing comic", ErrInvalidSale)
	}
	if !comic.Price.IsSet() {
		return Sale{}, fmt.Errorf("%w: comic has no price", ErrInvalidSale)
	}
	return Sale{
		ID:         id,
		UserID:     userID,
		ComicID:    comic.ID,
		ComicName:  comic.Name,
		UnitPrice:  comic.Price,
		OccurredAt: now.UTC(),
	}, nil
}

// Tax is the unit price times the fixed rate, rounded to the currency's
// minor units.
func (s Sale) Tax() (Money, error) {
	return NewMoney(s.UnitPrice.Amount().Mul(saleTaxRate), s.UnitPrice.Currency())
}

// FinalPrice is UnitPrice + Tax.
func (s Sale) FinalPrice() (Money, error) {
	tax, err := s.Tax()
	if err != nil {
		return Money{}, err
	}
	return s.UnitPrice.Add(tax)
}

// Less is the natural ordering for sorted storage: occurrence ascending,
// ties broken by id.
func (s Sale) Less(o Sale) bool {
	if !s.OccurredAt.Equal(o.OccurredAt) {
		return s.OccurredAt.Before(o.OccurredAt)
	}
	return s.ID < o.ID
}
