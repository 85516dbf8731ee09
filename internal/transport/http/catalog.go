package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// CatalogService is the minimal interface needed for the comic catalog endpoints.
type CatalogService interface {
	AddComic(ctx context.Context, name, description string, price domain.Money) (domain.Comic, error)
	UpdateComic(ctx context.Context, id, name, description string, price domain.Money) (domain.Comic, error)
	GetComic(ctx context.Context, id string) (domain.Comic, error)
	ListCatalog(ctx context.Context) ([]domain.Comic, error)
	SearchComics(ctx context.Context, query string) ([]domain.Comic, error)
	RemoveComic(ctx context.Context, id string) error
}

// HandleComics returns an HTTP handler for /comics (list, search, create).
func HandleComics(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			var (
				comics []domain.Comic
				err    error
			)
			if q := r.URL.Query().Get("q"); q != "" {
				comics, err = svc.SearchComics(r.Context(), q)
			} else {
				comics, err = svc.ListCatalog(r.Context())
			}
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]comicResponse, 0, len(comics))
			for _, c := range comics {
				resp = append(resp, newComicResponse(c))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			req, ok := decodeComicRequest(w, r)
			if !ok {
				return
			}
			price, err := domain.MoneyFromString(req.PriceAmount, req.PriceCurrency)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
				return
			}
			comic, err := svc.AddComic(r.Context(), req.Name, req.Description, price)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(newComicResponse(comic))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleComicByID returns an HTTP handler for /comics/{id} (get, update, delete).
func HandleComicByID(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseComicPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			comic, err := svc.GetComic(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(newComicResponse(comic))
			return
		case http.MethodPut:
			req, ok := decodeComicRequest(w, r)
			if !ok {
				return
			}
			price, err := domain.MoneyFromString(req.PriceAmount, req.PriceCurrency)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
				return
			}
			comic, err := svc.UpdateComic(r.Context(), id, req.Name, req.Description, price)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(newComicResponse(comic))
			return
		case http.MethodDelete:
			if err := svc.RemoveComic(r.Context(), id); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

func decodeComicRequest(w http.ResponseWriter, r *http.Request) (comicRequest, bool) {
	var req comicRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return comicRequest{}, false
	}
	if req.Name == "" || req.PriceAmount == "" || req.PriceCurrency == "" {
		writeError(w, http.StatusBadRequest, codeInvalidComic, "name, price_amount and price_currency are required")
		return comicRequest{}, false
	}
	return req, true
}

func parseComicPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "comics" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type comicRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	PriceAmount   string `json:"price_amount"`
	PriceCurrency string `json:"price_currency"`
}

type comicResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	PriceAmount   string `json:"price_amount"`
	PriceCurrency string `json:"price_currency"`
}

func newComicResponse(c domain.Comic) comicResponse {
	return comicResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		PriceAmount:   c.Price.Amount().String(),
		PriceCurrency: c.Price.Currency(),
	}
}
