package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dizzy-lib/comic-collector-system/internal/app"
	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

const defaultRankingLimit = 10

// ReportService is the minimal interface needed for the inventory report endpoints.
type ReportService interface {
	Stats(ctx context.Context) (app.InventoryStats, error)
	AvailableComics(ctx context.Context) ([]domain.Comic, error)
	ReservedComics(ctx context.Context) ([]domain.Comic, error)
	InactiveComics(ctx context.Context) ([]domain.Comic, error)
	MostSold(ctx context.Context, limit int) ([]app.ComicActivity, error)
	MostReserved(ctx context.Context, limit int) ([]app.ComicActivity, error)
}

// HandleReports returns an HTTP handler for GET /reports/{name}.
func HandleReports(svc ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		name, ok := parseReportPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch name {
		case "inventory":
			stats, err := svc.Stats(r.Context())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, statsResponse{
				TotalComics:        stats.TotalComics,
				AvailableComics:    stats.AvailableComics,
				ReservedComics:     stats.ReservedComics,
				InactiveComics:     stats.InactiveComics,
				TotalSales:         stats.TotalSales,
				ActiveReservations: stats.ActiveReservations,
			})
		case "available":
			writeComicReport(w, r, svc.AvailableComics)
		case "reserved":
			writeComicReport(w, r, svc.ReservedComics)
		case "inactive":
			writeComicReport(w, r, svc.InactiveComics)
		case "top-sold":
			writeActivityReport(w, r, svc.MostSold)
		case "top-reserved":
			writeActivityReport(w, r, svc.MostReserved)
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

func writeComicReport(w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]domain.Comic, error)) {
	comics, err := fetch(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]comicResponse, 0, len(comics))
	for _, c := range comics {
		resp = append(resp, newComicResponse(c))
	}
	writeJSON(w, resp)
}

func writeActivityReport(w http.ResponseWriter, r *http.Request, fetch func(context.Context, int) ([]app.ComicActivity, error)) {
	limit := defaultRankingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := fetch(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]activityResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, activityResponse{ComicID: e.ComicID, Name: e.Name, Count: e.Count})
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func parseReportPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return "", false
	}
	if parts[0] != "reports" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type statsResponse struct {
	TotalComics        int `json:"total_comics"`
	AvailableComics    int `json:"available_comics"`
	ReservedComics     int `json:"reserved_comics"`
	InactiveComics     int `json:"inactive_comics"`
	TotalSales         int `json:"total_sales"`
	ActiveReservations int `json:"active_reservations"`
}

type activityResponse struct {
	ComicID string `json:"comic_id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
}
