package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

func TestHandleCreateReservation(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expires := now.Add(48 * time.Hour)
	success := domain.Reservation{
		ID:        "res-123",
		UserID:    7,
		ComicID:   "comic-1",
		CreatedAt: now,
		ExpiresAt: expires,
		Status:    domain.ReservationStatusActive,
	}

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"user_id":7,"comic_id":"comic-1"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"id":"res-123"`,
		},
		{
			name:           "invalid json",
			body:           `{"user_id":`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_request_body"`,
		},
		{
			name:           "missing comic",
			body:           `{"user_id":7}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "comic not found",
			body:           `{"user_id":7,"comic_id":"ghost"}`,
			serviceErr:     domain.ErrComicNotFound,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: `"code":"comic_not_found"`,
		},
		{
			name:           "held by someone else",
			body:           `{"user_id":7,"comic_id":"comic-1"}`,
			serviceErr:     domain.ErrComicUnavailable,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"comic_unavailable"`,
		},
		{
			name:           "quota exceeded",
			body:           `{"user_id":7,"comic_id":"comic-1"}`,
			serviceErr:     domain.ErrReservationQuota,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"reservation_quota_exceeded"`,
		},
		{
			name:           "internal error",
			body:           `{"user_id":7,"comic_id":"comic-1"}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubReservationService{reservation: success, err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/reservations", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleCreateReservation(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}

	t.Run("method not allowed", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/reservations", nil)
		rec := httptest.NewRecorder()
		HandleCreateReservation(&stubReservationService{}).ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleCancelReservation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		path           string
		serviceErr     error
		expectedStatus int
	}{
		{"success", "/reservations/res-1/cancel", nil, http.StatusNoContent},
		{"not cancelable", "/reservations/res-1/cancel", domain.ErrNotCancelable, http.StatusConflict},
		{"not found", "/reservations/res-1/cancel", domain.ErrReservationNotFound, http.StatusNotFound},
		{"bad path", "/reservations/res-1/refund", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubReservationService{err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			rec := httptest.NewRecorder()

			HandleCancelReservation(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}
}

func TestHandleComicAvailability(t *testing.T) {
	t.Parallel()

	t.Run("reports availability", func(t *testing.T) {
		t.Parallel()
		svc := &stubReservationService{available: true}
		req := httptest.NewRequest(http.MethodGet, "/comics/comic-1/availability", nil)
		rec := httptest.NewRecorder()

		HandleComicAvailability(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"available":true`) {
			t.Fatalf("expected available true, got %q", rec.Body.String())
		}
	})

	t.Run("bad path", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/comics/comic-1/status", nil)
		rec := httptest.NewRecorder()
		HandleComicAvailability(&stubReservationService{}).ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

type stubReservationService struct {
	reservation domain.Reservation
	available   bool
	err         error
}

func (s *stubReservationService) Reserve(_ context.Context, _ int64, _ string) (domain.Reservation, error) {
	return s.reservation, s.err
}

func (s *stubReservationService) Cancel(_ context.Context, _ string) error {
	return s.err
}

func (s *stubReservationService) IsAvailable(_ context.Context, _ string) (bool, error) {
	return s.available, s.err
}
