package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// UserService is the minimal interface needed for the user endpoints.
type UserService interface {
	Register(ctx context.Context, firstName, lastName, email string) (domain.User, error)
	Update(ctx context.Context, id int64, firstName, lastName, email string) (domain.User, error)
	Get(ctx context.Context, id int64) (domain.User, error)
	Search(ctx context.Context, query string) ([]domain.User, error)
	Remove(ctx context.Context, id int64) error
}

// UserReservationLister is the minimal interface needed to list a user's active holds.
type UserReservationLister interface {
	ActiveReservationsOf(ctx context.Context, userID int64) ([]domain.Reservation, error)
}

// HandleUsers returns an HTTP handler for /users (search, register).
func HandleUsers(svc UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			users, err := svc.Search(r.Context(), r.URL.Query().Get("q"))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]userResponse, 0, len(users))
			for _, u := range users {
				resp = append(resp, newUserResponse(u))
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(resp)
			return
		case http.MethodPost:
			req, ok := decodeUserRequest(w, r)
			if !ok {
				return
			}
			user, err := svc.Register(r.Context(), req.FirstName, req.LastName, req.Email)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(newUserResponse(user))
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleUserByID returns an HTTP handler for /users/{id} (get, update, delete).
func HandleUserByID(svc UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseUserPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch r.Method {
		case http.MethodGet:
			user, err := svc.Get(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(newUserResponse(user))
			return
		case http.MethodPut:
			req, ok := decodeUserRequest(w, r)
			if !ok {
				return
			}
			user, err := svc.Update(r.Context(), id, req.FirstName, req.LastName, req.Email)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(newUserResponse(user))
			return
		case http.MethodDelete:
			if err := svc.Remove(r.Context(), id); err != nil {
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

// HandleUserReservations returns an HTTP handler for GET /users/{id}/reservations.
func HandleUserReservations(svc UserReservationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		id, ok := parseUserReservationsPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		reservations, err := svc.ActiveReservationsOf(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]reservationResponse, 0, len(reservations))
		for _, res := range reservations {
			resp = append(resp, newReservationResponse(res))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func decodeUserRequest(w http.ResponseWriter, r *http.Request) (userRequest, bool) {
	var req userRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return userRequest{}, false
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, codeInvalidUser, "first_name, last_name and email are required")
		return userRequest{}, false
	}
	return req, true
}

func parseUserPath(path string) (int64, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return 0, false
	}
	if parts[0] != "users" {
		return 0, false
	}
	return parseUserID(parts[1])
}

func parseUserReservationsPath(path string) (int64, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 3 {
		return 0, false
	}
	if parts[0] != "users" || parts[2] != "reservations" {
		return 0, false
	}
	return parseUserID(parts[1])
}

func parseUserID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type userRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func newUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email.String(),
	}
}
