package app

import (
	"context"
	"sort"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// ReportRepository is the read-only surface for inventory reporting.
type ReportRepository interface {
	ListComics(ctx context.Context) ([]domain.Comic, error)
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)
}

// ComicActivity counts reservations or sales per comic. Name comes from the
// catalog when the comic still exists, or from the sale record for comics
// already sold off.
type ComicActivity struct {
	ComicID string
	Name    string
	Count   int
}

// InventoryStats are the aggregate counters of the catalog.
type InventoryStats struct {
	TotalComics        int
	AvailableComics    int
	ReservedComics     int
	TotalSales         int
	ActiveReservations int
	InactiveComics     int
}

type ReportService struct {
	repo ReportRepository
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// AvailableComics lists catalog entries with no active reservation.
func (s *ReportService) AvailableComics(ctx context.Context) ([]domain.Comic, error) {
	comics, err := s.repo.ListComics(ctx)
	if err != nil {
		return nil, err
	}
	held, err := s.activeComicIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Comic, 0, len(comics))
	for _, c := range comics {
		if _, ok := held[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// ReservedComics lists catalog entries currently under an active hold.
func (s *ReportService) ReservedComics(ctx context.Context) ([]domain.Comic, error) {
	comics, err := s.repo.ListComics(ctx)
	if err != nil {
		return nil, err
	}
	held, err := s.activeComicIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Comic, 0, len(held))
	for _, c := range comics {
		if _, ok := held[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// MostSold returns up to limit comics ranked by sale count, descending,
// ties broken by comic id.
func (s *ReportService) MostSold(ctx context.Context, limit int) ([]ComicActivity, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidID
	}
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]*ComicActivity)
	for _, sale := range sales {
		a, ok := counts[sale.ComicID]
		if !ok {
			a = &ComicActivity{ComicID: sale.ComicID, Name: sale.ComicName}
			counts[sale.ComicID] = a
		}
		a.Count++
	}
	return rank(counts, limit), nil
}

// MostReserved returns up to limit comics ranked by reservation count (any
// state), descending, ties broken by comic id.
func (s *ReportService) MostReserved(ctx context.Context, limit int) ([]ComicActivity, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidID
	}
	reservations, err := s.repo.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	comics, err := s.repo.ListComics(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(comics))
	for _, c := range comics {
		names[c.ID] = c.Name
	}
	counts := make(map[string]*ComicActivity)
	for _, r := range reservations {
		a, ok := counts[r.ComicID]
		if !ok {
			a = &ComicActivity{ComicID: r.ComicID, Name: names[r.ComicID]}
			counts[r.ComicID] = a
		}
		a.Count++
	}
	return rank(counts, limit), nil
}

// InactiveComics lists catalog entries with no reservations and no sales.
func (s *ReportService) InactiveComics(ctx context.Context) ([]domain.Comic, error) {
	comics, err := s.repo.ListComics(ctx)
	if err != nil {
		return nil, err
	}
	reservations, err := s.repo.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	active := make(map[string]struct{})
	for _, r := range reservations {
		active[r.ComicID] = struct{}{}
	}
	for _, sale := range sales {
		active[sale.ComicID] = struct{}{}
	}
	out := make([]domain.Comic, 0, len(comics))
	for _, c := range comics {
		if _, ok := active[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *ReportService) Stats(ctx context.Context) (InventoryStats, error) {
	comics, err := s.repo.ListComics(ctx)
	if err != nil {
		return InventoryStats{}, err
	}
	reservations, err := s.repo.ListReservations(ctx)
	if err != nil {
		return InventoryStats{}, err
	}
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return InventoryStats{}, err
	}

	held := make(map[string]struct{})
	activeReservations := 0
	touched := make(map[string]struct{})
	for _, r := range reservations {
		touched[r.ComicID] = struct{}{}
		if r.IsActive() {
			held[r.ComicID] = struct{}{}
			activeReservations++
		}
	}
	for _, sale := range sales {
		touched[sale.ComicID] = struct{}{}
	}

	stats := InventoryStats{
		TotalComics:        len(comics),
		TotalSales:         len(sales),
		ActiveReservations: activeReservations,
	}
	for _, c := range comics {
		if _, ok := held[c.ID]; ok {
			stats.ReservedComics++
		} else {
			stats.AvailableComics++
		}
		if _, ok := touched[c.ID]; !ok {
			stats.InactiveComics++
		}
	}
	return stats, nil
}

func (s *ReportService) activeComicIDs(ctx context.Context) (map[string]struct{}, error) {
	reservations, err := s.repo.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	held := make(map[string]struct{})
	for _, r := range reservations {
		if r.IsActive() {
			held[r.ComicID] = struct{}{}
		}
	}
	return held, nil
}

func rank(counts map[string]*ComicActivity, limit int) []ComicActivity {
	out := make([]ComicActivity, 0, len(counts))
	for _, a := range counts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ComicID < out[j].ComicID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
