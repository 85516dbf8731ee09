package app

import (
	"context"
	"strings"
	"time"

	"github.com/dizzy-lib/comic-collector-system/internal/clock"
	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// UserRepository is the persistence surface for user management.
// CreateUser assigns the integer id and returns the stored user.
type UserRepository interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	UpdateUser(ctx context.Context, u domain.User) error
	DeleteUser(ctx context.Context, id int64) error
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CountActiveReservationsByUser(ctx context.Context, userID int64) (int, error)
	CountSalesByUserSince(ctx context.Context, userID int64, since time.Time) (int, error)
}

// A user with sales newer than this cannot be deleted.
const recentSalesWindow = 30 * 24 * time.Hour

type UserService struct {
	repo  UserRepository
	clock clock.Clock
}

func NewUserService(repo UserRepository, clk clock.Clock) *UserService {
	return &UserService{repo: repo, clock: clk}
}

func (s *UserService) Register(ctx context.Context, firstName, lastName, email string) (domain.User, error) {
	user, err := domain.NewUser(firstName, lastName, email)
	if err != nil {
		return domain.User{}, err
	}
	taken, err := s.EmailExists(ctx, user.Email.String())
	if err != nil {
		return domain.User{}, err
	}
	if taken {
		return domain.User{}, domain.ErrEmailTaken
	}
	return s.repo.CreateUser(ctx, user)
}

func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, nil
	}
	existing, err := s.repo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

// Update replaces the user's mutable fields. The email must not belong to a
// different user.
func (s *UserService) Update(ctx context.Context, id int64, firstName, lastName, email string) (domain.User, error) {
	if id == 0 {
		return domain.User{}, domain.ErrInvalidID
	}
	updated, err := domain.NewUser(firstName, lastName, email)
	if err != nil {
		return domain.User{}, err
	}
	if _, err := s.repo.GetUserByID(ctx, id); err != nil {
		return domain.User{}, err
	}
	existing, err := s.repo.GetUserByEmail(ctx, updated.Email.String())
	if err != nil {
		return domain.User{}, err
	}
	if existing != nil && existing.ID != id {
		return domain.User{}, domain.ErrEmailTaken
	}
	updated.ID = id
	if err := s.repo.UpdateUser(ctx, updated); err != nil {
		return domain.User{}, err
	}
	return updated, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	if id == 0 {
		return domain.User{}, domain.ErrInvalidID
	}
	return s.repo.GetUserByID(ctx, id)
}

// Search filters users by a case-insensitive substring over first name,
// last name and email. An empty criterion returns everyone.
func (s *UserService) Search(ctx context.Context, query string) ([]domain.User, error) {
	all, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}
	matched := make([]domain.User, 0, len(all))
	for _, u := range all {
		if strings.Contains(strings.ToLower(u.FirstName), query) ||
			strings.Contains(strings.ToLower(u.LastName), query) ||
			strings.Contains(u.Email.String(), query) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// CanRemove is false while the user holds active reservations or made a
// purchase within the recent-sales window.
func (s *UserService) CanRemove(ctx context.Context, id int64) (bool, error) {
	if id == 0 {
		return false, nil
	}
	held, err := s.repo.CountActiveReservationsByUser(ctx, id)
	if err != nil {
		return false, err
	}
	if held > 0 {
		return false, nil
	}
	since := s.clock.Now().Add(-recentSalesWindow)
	recent, err := s.repo.CountSalesByUserSince(ctx, id, since)
	if err != nil {
		return false, err
	}
	return recent == 0, nil
}

func (s *UserService) Remove(ctx context.Context, id int64) error {
	if id == 0 {
		return domain.ErrInvalidID
	}
	if _, err := s.repo.GetUserByID(ctx, id); err != nil {
		return err
	}
	ok, err := s.CanRemove(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotRemovable
	}
	return s.repo.DeleteUser(ctx, id)
}
