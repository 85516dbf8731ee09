package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

type ComicRepository struct {
	pool *pgxpool.Pool
}

func NewComicRepository(pool *pgxpool.Pool) *ComicRepository {
	return &ComicRepository{pool: pool}
}

const comicColumns = `id, name, description, price_amount::text, price_currency`

func scanComic(row pgx.Row) (domain.Comic, error) {
	var c domain.Comic
	var amount, currency string
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &amount, &currency); err != nil {
		return domain.Comic{}, err
	}
	price, err := domain.MoneyFromString(amount, currency)
	if err != nil {
		return domain.Comic{}, fmt.Errorf("scan comic price: %w", err)
	}
	c.Price = price
	return c, nil
}

func (r *ComicRepository) GetComic(ctx context.Context, id string) (domain.Comic, error) {
	const query = `SELECT ` + comicColumns + ` FROM comics WHERE id = $1`
	c, err := scanComic(db(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Comic{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Comic{}, domain.ErrComicNotFound
		}
		return domain.Comic{}, fmt.Errorf("get comic: %w", err)
	}
	return c, nil
}

func (r *ComicRepository) ListComics(ctx context.Context) ([]domain.Comic, error) {
	const query = `SELECT ` + comicColumns + ` FROM comics ORDER BY created_at ASC, id ASC`
	rows, err := db(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list comics: %w", err)
	}
	defer rows.Close()

	var comics []domain.Comic
	for rows.Next() {
		c, err := scanComic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comic: %w", err)
		}
		comics = append(comics, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate comics: %w", rows.Err())
	}
	return comics, nil
}

func (r *ComicRepository) CreateComic(ctx context.Context, c domain.Comic) error {
	const stmt = `
INSERT INTO comics (id, name, description, price_amount, price_currency)
VALUES ($1, $2, $3, $4::numeric, $5)`
	_, err := db(ctx, r.pool).Exec(ctx, stmt,
		c.ID, c.Name, c.Description, c.Price.Amount().String(), c.Price.Currency())
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create comic: %w", err)
	}
	return nil
}

func (r *ComicRepository) UpdateComic(ctx context.Context, c domain.Comic) error {
	const stmt = `
UPDATE comics
SET name = $2, description = $3, price_amount = $4::numeric, price_currency = $5
WHERE id = $1`
	tag, err := db(ctx, r.pool).Exec(ctx, stmt,
		c.ID, c.Name, c.Description, c.Price.Amount().String(), c.Price.Currency())
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update comic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrComicNotFound
	}
	return nil
}

func (r *ComicRepository) DeleteComic(ctx context.Context, id string) error {
	const stmt = `DELETE FROM comics WHERE id = $1`
	tag, err := db(ctx, r.pool).Exec(ctx, stmt, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete comic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrComicNotFound
	}
	return nil
}

func (r *ComicRepository) CountActiveReservationsByComic(ctx context.Context, comicID string) (int, error) {
	const query = `SELECT COUNT(*) FROM reservations WHERE comic_id = $1 AND status = 'active'`
	var n int
	if err := db(ctx, r.pool).QueryRow(ctx, query, comicID).Scan(&n); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("count active reservations: %w", err)
	}
	return n, nil
}

func (r *ComicRepository) CountSalesByComic(ctx context.Context, comicID string) (int, error) {
	const query = `SELECT COUNT(*) FROM sales WHERE comic_id = $1`
	var n int
	if err := db(ctx, r.pool).QueryRow(ctx, query, comicID).Scan(&n); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}
