package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// ReservationCreator is the minimal interface needed to place a hold on a comic.
type ReservationCreator interface {
	Reserve(ctx context.Context, userID int64, comicID string) (domain.Reservation, error)
}

// ReservationCanceler is the minimal interface needed to cancel a reservation.
type ReservationCanceler interface {
	Cancel(ctx context.Context, reservationID string) error
}

// AvailabilityChecker is the minimal interface needed for availability lookups.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, comicID string) (bool, error)
}

// HandleCreateReservation returns an HTTP handler for placing reservations.
func HandleCreateReservation(svc ReservationCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createReservationRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.UserID <= 0 || req.ComicID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidReservation, "user_id and comic_id are required")
			return
		}

		res, err := svc.Reserve(r.Context(), req.UserID, req.ComicID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(newReservationResponse(res))
	}
}

// HandleCancelReservation returns an HTTP handler for POST /reservations/{id}/cancel.
func HandleCancelReservation(svc ReservationCanceler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		id, ok := parseCancelReservationPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		if err := svc.Cancel(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleComicAvailability returns an HTTP handler for GET /comics/{id}/availability.
func HandleComicAvailability(svc AvailabilityChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		id, ok := parseComicAvailabilityPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		available, err := svc.IsAvailable(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(availabilityResponse{ComicID: id, Available: available})
	}
}

func parseCancelReservationPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "reservations" || parts[2] != "cancel" {
		return "", false
	}
	if parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func parseComicAvailabilityPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return "", false
	}
	if parts[0] != "comics" || parts[2] != "availability" {
		return "", false
	}
	if parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type createReservationRequest struct {
	UserID  int64  `json:"user_id"`
	ComicID string `json:"comic_id"`
}

type reservationResponse struct {
	ID        string     `json:"id"`
	UserID    int64      `json:"user_id"`
	ComicID   string     `json:"comic_id"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func newReservationResponse(res domain.Reservation) reservationResponse {
	out := reservationResponse{
		ID:        res.ID,
		UserID:    res.UserID,
		ComicID:   res.ComicID,
		Status:    string(res.Status),
		CreatedAt: res.CreatedAt,
	}
	if !res.ExpiresAt.IsZero() {
		expires := res.ExpiresAt
		out.ExpiresAt = &expires
	}
	return out
}

type availabilityResponse struct {
	ComicID   string `json:"comic_id"`
	Available bool   `json:"available"`
}
