package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// SaleRepository backs the sale service. It spans comics, users and
// reservations because a purchase mutates all of them in one transaction.
type SaleRepository struct {
	pool         *pgxpool.Pool
	comics       *ComicRepository
	reservations *ReservationRepository
}

func NewSaleRepository(pool *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{
		pool:         pool,
		comics:       NewComicRepository(pool),
		reservations: NewReservationRepository(pool),
	}
}

func (r *SaleRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *SaleRepository) GetComicForUpdate(ctx context.Context, comicID string) (domain.Comic, error) {
	return r.reservations.GetComicForUpdate(ctx, comicID)
}

func (r *SaleRepository) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	return r.reservations.GetUser(ctx, userID)
}

func (r *SaleRepository) FindActiveByComic(ctx context.Context, comicID string) ([]domain.Reservation, error) {
	return r.reservations.FindActiveByComic(ctx, comicID)
}

func (r *SaleRepository) UpdateReservation(ctx context.Context, res domain.Reservation) error {
	return r.reservations.UpdateReservation(ctx, res)
}

func (r *SaleRepository) DeleteComic(ctx context.Context, comicID string) error {
	return r.comics.DeleteComic(ctx, comicID)
}

const saleColumns = `id, user_id, comic_id, comic_name, unit_price_amount::text, unit_price_currency, occurred_at`

func scanSale(row pgx.Row) (domain.Sale, error) {
	var s domain.Sale
	var amount, currency string
	if err := row.Scan(&s.ID, &s.UserID, &s.ComicID, &s.ComicName, &amount, &currency, &s.OccurredAt); err != nil {
		return domain.Sale{}, err
	}
	price, err := domain.MoneyFromString(amount, currency)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("scan sale price: %w", err)
	}
	s.UnitPrice = price
	s.OccurredAt = s.OccurredAt.UTC()
	return s, nil
}

func (r *SaleRepository) CreateSale(ctx context.Context, sale domain.Sale) error {
	const stmt = `
INSERT INTO sales (id, user_id, comic_id, comic_name, unit_price_amount, unit_price_currency, occurred_at)
VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)`
	_, err := db(ctx, r.pool).Exec(ctx, stmt,
		sale.ID,
		sale.UserID,
		sale.ComicID,
		sale.ComicName,
		sale.UnitPrice.Amount().String(),
		sale.UnitPrice.Currency(),
		sale.OccurredAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

func (r *SaleRepository) FindSalesByUser(ctx context.Context, userID int64) ([]domain.Sale, error) {
	const query = `
SELECT ` + saleColumns + `
FROM sales
WHERE user_id = $1
ORDER BY occurred_at ASC, id ASC`
	return r.querySales(ctx, query, userID)
}

func (r *SaleRepository) FindSalesByComic(ctx context.Context, comicID string) ([]domain.Sale, error) {
	const query = `
SELECT ` + saleColumns + `
FROM sales
WHERE comic_id = $1
ORDER BY occurred_at ASC, id ASC`
	return r.querySales(ctx, query, comicID)
}

func (r *SaleRepository) querySales(ctx context.Context, query string, args ...any) ([]domain.Sale, error) {
	rows, err := db(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var out []domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, s)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate sales: %w", rows.Err())
	}
	return out, nil
}
