package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// ReportRepository is the read-only surface for inventory reporting,
// composed from the per-aggregate repositories.
type ReportRepository struct {
	comics       *ComicRepository
	reservations *ReservationRepository
	sales        *SaleRepository
	pool         *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{
		comics:       NewComicRepository(pool),
		reservations: NewReservationRepository(pool),
		sales:        NewSaleRepository(pool),
		pool:         pool,
	}
}

func (r *ReportRepository) ListComics(ctx context.Context) ([]domain.Comic, error) {
	return r.comics.ListComics(ctx)
}

func (r *ReportRepository) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	const query = `
SELECT ` + reservationColumns + `
FROM reservations
ORDER BY expires_at ASC, id ASC`
	return r.reservations.queryReservations(ctx, query)
}

func (r *ReportRepository) ListSales(ctx context.Context) ([]domain.Sale, error) {
	const query = `
SELECT ` + saleColumns + `
FROM sales
ORDER BY occurred_at ASC, id ASC`
	return r.sales.querySales(ctx, query)
}
