package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

// Purchaser is the minimal interface needed to complete a sale.
type Purchaser interface {
	Purchase(ctx context.Context, userID int64, comicID string) (domain.Sale, error)
}

// HandlePurchase returns an HTTP handler for POST /purchases.
func HandlePurchase(svc Purchaser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req purchaseRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.UserID <= 0 || req.ComicID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "user_id and comic_id are required")
			return
		}

		sale, err := svc.Purchase(r.Context(), req.UserID, req.ComicID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp, err := newSaleResponse(sale)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type purchaseRequest struct {
	UserID  int64  `json:"user_id"`
	ComicID string `json:"comic_id"`
}

type saleResponse struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	ComicID    string    `json:"comic_id"`
	ComicName  string    `json:"comic_name"`
	UnitPrice  string    `json:"unit_price"`
	Tax        string    `json:"tax"`
	FinalPrice string    `json:"final_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newSaleResponse(sale domain.Sale) (saleResponse, error) {
	tax, err := sale.Tax()
	if err != nil {
		return saleResponse{}, err
	}
	final, err := sale.FinalPrice()
	if err != nil {
		return saleResponse{}, err
	}
	return saleResponse{
		ID:         sale.ID,
		UserID:     sale.UserID,
		ComicID:    sale.ComicID,
		ComicName:  sale.ComicName,
		UnitPrice:  sale.UnitPrice.String(),
		Tax:        tax.String(),
		FinalPrice: final.String(),
		OccurredAt: sale.OccurredAt,
	}, nil
}
