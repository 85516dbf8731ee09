// Package memory implements in-memory repositories for development and
// testing. One mutex serializes WithTx closures, standing in for the
// per-item row locks of the Postgres adapter; there is no rollback, so
// error-path tests that need partial-write behavior inject failing fakes
// instead.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dizzy-lib/comic-collector-system/internal/app"
	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// Store holds every aggregate behind one mutex.
type Store struct {
	mu            sync.Mutex
	comics        map[string]domain.Comic
	users         map[int64]domain.User
	reservations  map[string]domain.Reservation
	sales         map[string]domain.Sale
	userIDCounter int64
}

func New() *Store {
	return &Store{
		comics:       make(map[string]domain.Comic),
		users:        make(map[int64]domain.User),
		reservations: make(map[string]domain.Reservation),
		sales:        make(map[string]domain.Sale),
	}
}

// Ensure interfaces are met.
var (
	_ app.ReservationRepository = (*Store)(nil)
	_ app.SaleRepository        = (*Store)(nil)
	_ app.CatalogRepository     = (*Store)(nil)
	_ app.UserRepository        = (*Store)(nil)
	_ app.ReportRepository      = (*Store)(nil)
)

type txMarker struct{}

// WithTx takes the store mutex for the duration of the closure and marks
// the context so nested repository calls skip re-locking, mirroring the
// tx-in-context discipline of the Postgres adapter.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, txMarker{}, struct{}{}))
}

// lock acquires the mutex unless the context carries a transaction.
// Usage: defer s.lock(ctx)()
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txMarker{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// --- comics ---

func (s *Store) GetComic(ctx context.Context, id string) (domain.Comic, error) {
	defer s.lock(ctx)()
	c, ok := s.comics[id]
	if !ok {
		return domain.Comic{}, domain.ErrComicNotFound
	}
	return c, nil
}

// GetComicForUpdate is GetComic under the store mutex; the WithTx mutex is
// the only lock granularity this adapter has.
func (s *Store) GetComicForUpdate(ctx context.Context, id string) (domain.Comic, error) {
	return s.GetComic(ctx, id)
}

func (s *Store) ListComics(ctx context.Context) ([]domain.Comic, error) {
	defer s.lock(ctx)()
	out := make([]domain.Comic, 0, len(s.comics))
	for _, c := range s.comics {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateComic(ctx context.Context, c domain.Comic) error {
	defer s.lock(ctx)()
	s.comics[c.ID] = c
	return nil
}

func (s *Store) UpdateComic(ctx context.Context, c domain.Comic) error {
	defer s.lock(ctx)()
	if _, ok := s.comics[c.ID]; !ok {
		return domain.ErrComicNotFound
	}
	s.comics[c.ID] = c
	return nil
}

func (s *Store) DeleteComic(ctx context.Context, id string) error {
	defer s.lock(ctx)()
	if _, ok := s.comics[id]; !ok {
		return domain.ErrComicNotFound
	}
	delete(s.comics, id)
	return nil
}

func (s *Store) CountActiveReservationsByComic(ctx context.Context, comicID string) (int, error) {
	defer s.lock(ctx)()
	n := 0
	for _, r := range s.reservations {
		if r.ComicID == comicID && r.IsActive() {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountSalesByComic(ctx context.Context, comicID string) (int, error) {
	defer s.lock(ctx)()
	n := 0
	for _, sale := range s.sales {
		if sale.ComicID == comicID {
			n++
		}
	}
	return n, nil
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	defer s.lock(ctx)()
	for _, existing := range s.users {
		if existing.Email.String() == u.Email.String() {
			return domain.User{}, domain.ErrEmailTaken
		}
	}
	s.userIDCounter++
	u.ID = s.userIDCounter
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u domain.User) error {
	defer s.lock(ctx)()
	if _, ok := s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, existing := range s.users {
		if existing.ID != u.ID && existing.Email.String() == u.Email.String() {
			return domain.ErrEmailTaken
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	defer s.lock(ctx)()
	if _, ok := s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return s.GetUser(ctx, id)
}

func (s *Store) GetUser(ctx context.Context, id int64) (domain.User, error) {
	defer s.lock(ctx)()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	defer s.lock(ctx)()
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email.String() == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	defer s.lock(ctx)()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CountActiveReservationsByUser(ctx context.Context, userID int64) (int, error) {
	defer s.lock(ctx)()
	n := 0
	for _, r := range s.reservations {
		if r.UserID == userID && r.IsActive() {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountSalesByUserSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	defer s.lock(ctx)()
	n := 0
	for _, sale := range s.sales {
		if sale.UserID == userID && sale.OccurredAt.After(since) {
			n++
		}
	}
	return n, nil
}

// --- reservations ---

func (s *Store) GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error) {
	defer s.lock(ctx)()
	r, ok := s.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return r, nil
}

func (s *Store) FindByComic(ctx context.Context, comicID string) ([]domain.Reservation, error) {
	defer s.lock(ctx)()
	return s.filterReservations(func(r domain.Reservation) bool {
		return r.ComicID == comicID
	}), nil
}

func (s *Store) FindByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	defer s.lock(ctx)()
	return s.filterReservations(func(r domain.Reservation) bool {
		return r.UserID == userID
	}), nil
}

func (s *Store) FindActiveByComic(ctx context.Context, comicID string) ([]domain.Reservation, error) {
	defer s.lock(ctx)()
	return s.filterReservations(func(r domain.Reservation) bool {
		return r.ComicID == comicID && r.IsActive()
	}), nil
}

func (s *Store) FindExpired(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	defer s.lock(ctx)()
	return s.filterReservations(func(r domain.Reservation) bool {
		return !r.ExpiresAt.IsZero() && r.ExpiresAt.Before(asOf)
	}), nil
}

func (s *Store) CreateReservation(ctx context.Context, r domain.Reservation) error {
	defer s.lock(ctx)()
	s.reservations[r.ID] = r
	return nil
}

func (s *Store) UpdateReservation(ctx context.Context, r domain.Reservation) error {
	defer s.lock(ctx)()
	if _, ok := s.reservations[r.ID]; !ok {
		return domain.ErrReservationNotFound
	}
	s.reservations[r.ID] = r
	return nil
}

func (s *Store) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	defer s.lock(ctx)()
	return s.filterReservations(func(domain.Reservation) bool { return true }), nil
}

func (s *Store) filterReservations(keep func(domain.Reservation) bool) []domain.Reservation {
	var out []domain.Reservation
	for _, r := range s.reservations {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// --- sales ---

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) error {
	defer s.lock(ctx)()
	s.sales[sale.ID] = sale
	return nil
}

func (s *Store) FindSalesByUser(ctx context.Context, userID int64) ([]domain.Sale, error) {
	defer s.lock(ctx)()
	return s.filterSales(func(sale domain.Sale) bool { return sale.UserID == userID }), nil
}

func (s *Store) FindSalesByComic(ctx context.Context, comicID string) ([]domain.Sale, error) {
	defer s.lock(ctx)()
	return s.filterSales(func(sale domain.Sale) bool { return sale.ComicID == comicID }), nil
}

func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	defer s.lock(ctx)()
	return s.filterSales(func(domain.Sale) bool { return true }), nil
}

func (s *Store) filterSales(keep func(domain.Sale) bool) []domain.Sale {
	var out []domain.Sale
	for _, sale := range s.sales {
		if keep(sale) {
			out = append(out, sale)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
