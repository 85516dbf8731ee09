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

func TestHandlePurchase(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	price, err := domain.MoneyFromString("1000", "CLP")
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	comic, err := domain.NewComic("comic-1", "Watchmen", "Absolute edition", price)
	if err != nil {
		t.Fatalf("comic: %v", err)
	}
	sale, err := domain.NewSale("sale-123", 7, comic, now)
	if err != nil {
		t.Fatalf("sale: %v", err)
	}

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success includes derived prices",
			body:           `{"user_id":7,"comic_id":"comic-1"}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"final_price":"CLP 1190"`,
		},
		{
			name:           "invalid json",
			body:           `{"user_id":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing user",
			body:           `{"comic_id":"comic-1"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "blocked by foreign hold",
			body:           `{"user_id":7,"comic_id":"comic-1"}`,
			serviceErr:     domain.ErrComicUnavailable,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"comic_unavailable"`,
		},
		{
			name:           "comic not found",
			body:           `{"user_id":7,"comic_id":"ghost"}`,
			serviceErr:     domain.ErrComicNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "sale not processable",
			body:           `{"user_id":7,"comic_id":"comic-1"}`,
			serviceErr:     domain.ErrSaleNotProcessable,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"sale_not_processable"`,
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
			svc := &stubSaleService{sale: sale, err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/purchases", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandlePurchase(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

type stubSaleService struct {
	sale domain.Sale
	err  error
}

func (s *stubSaleService) Purchase(_ context.Context, _ int64, _ string) (domain.Sale, error) {
	return s.sale, s.err
}
