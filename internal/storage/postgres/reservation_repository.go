package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const reservationColumns = `id, user_id, comic_id, status, created_at, expires_at`

func scanReservation(row pgx.Row) (domain.Reservation, error) {
	var res domain.Reservation
	var status string
	var expiresAt *time.Time
	if err := row.Scan(&res.ID, &res.UserID, &res.ComicID, &status, &res.CreatedAt, &expiresAt); err != nil {
		return domain.Reservation{}, err
	}
	res.Status = domain.ReservationStatus(status)
	if expiresAt != nil {
		res.ExpiresAt = expiresAt.UTC()
	}
	res.CreatedAt = res.CreatedAt.UTC()
	return res, nil
}

// GetComicForUpdate locks the comic row for the transaction. This is the
// per-item critical section: a reserve and a purchase for the same comic
// serialize on this lock before either re-checks availability.
func (r *ReservationRepository) GetComicForUpdate(ctx context.Context, comicID string) (domain.Comic, error) {
	const query = `SELECT ` + comicColumns + ` FROM comics WHERE id = $1 FOR UPDATE`
	c, err := scanComic(db(ctx, r.pool).QueryRow(ctx, query, comicID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Comic{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Comic{}, domain.ErrComicNotFound
		}
		return domain.Comic{}, fmt.Errorf("get comic for update: %w", err)
	}
	return c, nil
}

func (r *ReservationRepository) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	const query = `SELECT id, first_name, last_name, email FROM users WHERE id = $1`
	u, err := scanUser(db(ctx, r.pool).QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *ReservationRepository) GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	res, err := scanReservation(db(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Reservation{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) FindByComic(ctx context.Context, comicID string) ([]domain.Reservation, error) {
	const query = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE comic_id = $1
ORDER BY expires_at ASC, id ASC`
	return r.queryReservations(ctx, query, comicID)
}

func (r *ReservationRepository) FindByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	const query = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE user_id = $1
ORDER BY expires_at ASC, id ASC`
	return r.queryReservations(ctx, query, userID)
}

func (r *ReservationRepository) FindActiveByComic(ctx context.Context, comicID string) ([]domain.Reservation, error) {
	const query = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE comic_id = $1 AND status = 'active'
ORDER BY expires_at ASC, id ASC`
	return r.queryReservations(ctx, query, comicID)
}

func (r *ReservationRepository) FindExpired(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	const query = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE expires_at IS NOT NULL AND expires_at < $1
ORDER BY expires_at ASC, id ASC`
	return r.queryReservations(ctx, query, asOf)
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res domain.Reservation) error {
	const stmt = `
INSERT INTO reservations (id, user_id, comic_id, status, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := db(ctx, r.pool).Exec(ctx, stmt,
		res.ID, res.UserID, res.ComicID, string(res.Status), res.CreatedAt, nullableTime(res.ExpiresAt))
	if err != nil {
		if isUniqueViolation(err) {
			// The partial unique index on active reservations caught a
			// concurrent hold that slipped past the availability check.
			return domain.ErrComicUnavailable
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) UpdateReservation(ctx context.Context, res domain.Reservation) error {
	const stmt = `
UPDATE reservations
SET status = $2, created_at = $3, expires_at = $4
WHERE id = $1`
	tag, err := db(ctx, r.pool).Exec(ctx, stmt,
		res.ID, string(res.Status), res.CreatedAt, nullableTime(res.ExpiresAt))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) queryReservations(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := db(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, res)
	}
	if rows.Err() != nil {
		if isInvalidUUID(rows.Err()) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("iterate reservations: %w", rows.Err())
	}
	return out, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
