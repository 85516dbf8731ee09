package app

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// fakeRepo backs every service interface in tests. Error fields inject
// failures on specific writes.
type fakeRepo struct {
	comics       map[string]domain.Comic
	users        map[int64]domain.User
	reservations map[string]domain.Reservation
	sales        map[string]domain.Sale

	failCreateSale        error
	failUpdateReservation error
	failDeleteComic       error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		comics:       make(map[string]domain.Comic),
		users:        make(map[int64]domain.User),
		reservations: make(map[string]domain.Reservation),
		sales:        make(map[string]domain.Sale),
	}
}

func (f *fakeRepo) addComic(c domain.Comic) *fakeRepo {
	f.comics[c.ID] = c
	return f
}

func (f *fakeRepo) addUser(u domain.User) *fakeRepo {
	f.users[u.ID] = u
	return f
}

func (f *fakeRepo) addReservation(r domain.Reservation) *fakeRepo {
	f.reservations[r.ID] = r
	return f
}

func (f *fakeRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeRepo) GetComic(ctx context.Context, id string) (domain.Comic, error) {
	c, ok := f.comics[id]
	if !ok {
		return domain.Comic{}, domain.ErrComicNotFound
	}
	return c, nil
}

func (f *fakeRepo) GetComicForUpdate(ctx context.Context, id string) (domain.Comic, error) {
	return f.GetComic(ctx, id)
}

func (f *fakeRepo) ListComics(ctx context.Context) ([]domain.Comic, error) {
	out := make([]domain.Comic, 0, len(f.comics))
	for _, c := range f.comics {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) CreateComic(ctx context.Context, c domain.Comic) error {
	f.comics[c.ID] = c
	return nil
}

func (f *fakeRepo) UpdateComic(ctx context.Context, c domain.Comic) error {
	if _, ok := f.comics[c.ID]; !ok {
		return domain.ErrComicNotFound
	}
	f.comics[c.ID] = c
	return nil
}

func (f *fakeRepo) DeleteComic(ctx context.Context, id string) error {
	if f.failDeleteComic != nil {
		return f.failDeleteComic
	}
	if _, ok := f.comics[id]; !ok {
		return domain.ErrComicNotFound
	}
	delete(f.comics, id)
	return nil
}

func (f *fakeRepo) CountActiveReservationsByComic(ctx context.Context, comicID string) (int, error) {
	n := 0
	for _, r := range f.reservations {
		if r.ComicID == comicID && r.IsActive() {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountSalesByComic(ctx context.Context, comicID string) (int, error) {
	n := 0
	for _, s := range f.sales {
		if s.ComicID == comicID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) GetUser(ctx context.Context, id int64) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return f.GetUser(ctx, id)
}

func (f *fakeRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email.String() == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = int64(len(f.users) + 1)
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeRepo) UpdateUser(ctx context.Context, u domain.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeRepo) DeleteUser(ctx context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) CountActiveReservationsByUser(ctx context.Context, userID int64) (int, error) {
	n := 0
	for _, r := range f.reservations {
		if r.UserID == userID && r.IsActive() {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountSalesByUserSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	n := 0
	for _, s := range f.sales {
		if s.UserID == userID && s.OccurredAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) GetReservationForUpdate(ctx context.Context, id string) (domain.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return domain.Reservation{}, domain.ErrReservationNotFound
	}
	return r, nil
}

func (f *fakeRepo) FindByComic(ctx context.Context, comicID string) ([]domain.Reservation, error) {
	return f.filterReservations(func(r domain.Reservation) bool { return r.ComicID == comicID }), nil
}

func (f *fakeRepo) FindByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	return f.filterReservations(func(r domain.Reservation) bool { return r.UserID == userID }), nil
}

func (f *fakeRepo) FindActiveByComic(ctx context.Context, comicID string) ([]domain.Reservation, error) {
	return f.filterReservations(func(r domain.Reservation) bool {
		return r.ComicID == comicID && r.IsActive()
	}), nil
}

func (f *fakeRepo) FindExpired(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	return f.filterReservations(func(r domain.Reservation) bool {
		return !r.ExpiresAt.IsZero() && r.ExpiresAt.Before(asOf)
	}), nil
}

func (f *fakeRepo) CreateReservation(ctx context.Context, r domain.Reservation) error {
	f.reservations[r.ID] = r
	return nil
}

func (f *fakeRepo) UpdateReservation(ctx context.Context, r domain.Reservation) error {
	if f.failUpdateReservation != nil {
		return f.failUpdateReservation
	}
	if _, ok := f.reservations[r.ID]; !ok {
		return domain.ErrReservationNotFound
	}
	f.reservations[r.ID] = r
	return nil
}

func (f *fakeRepo) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	return f.filterReservations(func(domain.Reservation) bool { return true }), nil
}

func (f *fakeRepo) CreateSale(ctx context.Context, s domain.Sale) error {
	if f.failCreateSale != nil {
		return f.failCreateSale
	}
	f.sales[s.ID] = s
	return nil
}

func (f *fakeRepo) ListSales(ctx context.Context) ([]domain.Sale, error) {
	out := make([]domain.Sale, 0, len(f.sales))
	for _, s := range f.sales {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out, nil
}

func (f *fakeRepo) filterReservations(keep func(domain.Reservation) bool) []domain.Reservation {
	var out []domain.Reservation
	for _, r := range f.reservations {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

var (
	_ ReservationRepository = (*fakeRepo)(nil)
	_ SaleRepository        = (*fakeRepo)(nil)
	_ CatalogRepository     = (*fakeRepo)(nil)
	_ UserRepository        = (*fakeRepo)(nil)
	_ ReportRepository      = (*fakeRepo)(nil)
)
