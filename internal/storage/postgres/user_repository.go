package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (domain.User, error) {
	var id int64
	var first, last, email string
	if err := row.Scan(&id, &first, &last, &email); err != nil {
		return domain.User{}, err
	}
	u, err := domain.NewUser(first, last, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.ID = id
	return u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	const stmt = `
INSERT INTO users (first_name, last_name, email)
VALUES ($1, $2, $3)
RETURNING id`
	var id int64
	err := db(ctx, r.pool).QueryRow(ctx, stmt, u.FirstName, u.LastName, u.Email.String()).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	u.ID = id
	return u, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, u domain.User) error {
	const stmt = `
UPDATE users
SET first_name = $2, last_name = $3, email = $4
WHERE id = $1`
	tag, err := db(ctx, r.pool).Exec(ctx, stmt, u.ID, u.FirstName, u.LastName, u.Email.String())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	const stmt = `DELETE FROM users WHERE id = $1`
	tag, err := db(ctx, r.pool).Exec(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	const query = `SELECT id, first_name, last_name, email FROM users WHERE id = $1`
	u, err := scanUser(db(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT id, first_name, last_name, email FROM users WHERE email = $1`
	u, err := scanUser(db(ctx, r.pool).QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT id, first_name, last_name, email FROM users ORDER BY id ASC`
	rows, err := db(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate users: %w", rows.Err())
	}
	return users, nil
}

func (r *UserRepository) CountActiveReservationsByUser(ctx context.Context, userID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM reservations WHERE user_id = $1 AND status = 'active'`
	var n int
	if err := db(ctx, r.pool).QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active reservations: %w", err)
	}
	return n, nil
}

func (r *UserRepository) CountSalesByUserSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM sales WHERE user_id = $1 AND occurred_at > $2`
	var n int
	if err := db(ctx, r.pool).QueryRow(ctx, query, userID, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count recent sales: %w", err)
	}
	return n, nil
}
