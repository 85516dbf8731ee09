package app

import (
	"context"
	"strings"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// CatalogRepository is the persistence surface for catalog maintenance.
type CatalogRepository interface {
	GetComic(ctx context.Context, id string) (domain.Comic, error)
	ListComics(ctx context.Context) ([]domain.Comic, error)
	CreateComic(ctx context.Context, c domain.Comic) error
	UpdateComic(ctx context.Context, c domain.Comic) error
	DeleteComic(ctx context.Context, id string) error
	CountActiveReservationsByComic(ctx context.Context, comicID string) (int, error)
	CountSalesByComic(ctx context.Context, comicID string) (int, error)
}

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) AddComic(ctx context.Context, name, description string, price domain.Money) (domain.Comic, error) {
	comic, err := domain.NewComic(newID(), name, description, price)
	if err != nil {
		return domain.Comic{}, err
	}
	if err := s.repo.CreateComic(ctx, comic); err != nil {
		return domain.Comic{}, err
	}
	return comic, nil
}

func (s *CatalogService) UpdateComic(ctx context.Context, id, name, description string, price domain.Money) (domain.Comic, error) {
	if id == "" {
		return domain.Comic{}, domain.ErrInvalidID
	}
	comic, err := s.repo.GetComic(ctx, id)
	if err != nil {
		return domain.Comic{}, err
	}
	if err := comic.Update(name, description, price); err != nil {
		return domain.Comic{}, err
	}
	if err := s.repo.UpdateComic(ctx, comic); err != nil {
		return domain.Comic{}, err
	}
	return comic, nil
}

func (s *CatalogService) GetComic(ctx context.Context, id string) (domain.Comic, error) {
	if id == "" {
		return domain.Comic{}, domain.ErrInvalidID
	}
	return s.repo.GetComic(ctx, id)
}

func (s *CatalogService) ListCatalog(ctx context.Context) ([]domain.Comic, error) {
	return s.repo.ListComics(ctx)
}

// SearchComics filters the catalog by a case-insensitive substring over name
// and description. An empty query returns the whole catalog.
func (s *CatalogService) SearchComics(ctx context.Context, query string) ([]domain.Comic, error) {
	all, err := s.repo.ListComics(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}
	matched := make([]domain.Comic, 0, len(all))
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Description), query) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// CanRemoveComic is false while the comic has active reservations or
// recorded sales.
func (s *CatalogService) CanRemoveComic(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	held, err := s.repo.CountActiveReservationsByComic(ctx, id)
	if err != nil {
		return false, err
	}
	if held > 0 {
		return false, nil
	}
	sold, err := s.repo.CountSalesByComic(ctx, id)
	if err != nil {
		return false, err
	}
	return sold == 0, nil
}

func (s *CatalogService) RemoveComic(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidID
	}
	if _, err := s.repo.GetComic(ctx, id); err != nil {
		return err
	}
	ok, err := s.CanRemoveComic(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrComicNotRemovable
	}
	return s.repo.DeleteComic(ctx, id)
}
