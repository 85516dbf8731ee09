package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dizzy-lib/comic-collector-system/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidID           = "invalid_id"
	codeInvalidReservation  = "invalid_reservation"
	codeInvalidComic        = "invalid_comic"
	codeInvalidUser         = "invalid_user"
	codeInvalidEmail        = "invalid_email"
	codeInvalidPrice        = "invalid_price"
	codeEmailTaken          = "email_taken"
	codeComicUnavailable    = "comic_unavailable"
	codeReservationQuota    = "reservation_quota_exceeded"
	codeNotCancelable       = "reservation_not_cancelable"
	codeComicNotRemovable   = "comic_not_removable"
	codeUserNotRemovable    = "user_not_removable"
	codeComicNotFound       = "comic_not_found"
	codeUserNotFound        = "user_not_found"
	codeReservationNotFound = "reservation_not_found"
	codeSaleNotProcessable  = "sale_not_processable"
	codeRateLimited         = "rate_limited"
	codeForbidden           = "forbidden"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps domain sentinels to a status and machine code.
// Wrapped errors match too, so service-layer %w chains keep their mapping.
func writeDomainError(w http.ResponseWriter, err error) {
	for _, m := range domainErrorMap {
		if errors.Is(err, m.target) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

var domainErrorMap = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrInvalidID, http.StatusBadRequest, codeInvalidID},
	{domain.ErrInvalidReservation, http.StatusBadRequest, codeInvalidReservation},
	{domain.ErrInvalidComic, http.StatusBadRequest, codeInvalidComic},
	{domain.ErrInvalidUser, http.StatusBadRequest, codeInvalidUser},
	{domain.ErrInvalidEmail, http.StatusBadRequest, codeInvalidEmail},
	{domain.ErrCurrencyMismatch, http.StatusBadRequest, codeInvalidPrice},
	{domain.ErrEmailTaken, http.StatusConflict, codeEmailTaken},
	{domain.ErrComicUnavailable, http.StatusConflict, codeComicUnavailable},
	{domain.ErrReservationQuota, http.StatusConflict, codeReservationQuota},
	{domain.ErrNotCancelable, http.StatusConflict, codeNotCancelable},
	{domain.ErrComicNotRemovable, http.StatusConflict, codeComicNotRemovable},
	{domain.ErrUserNotRemovable, http.StatusConflict, codeUserNotRemovable},
	{domain.ErrComicNotFound, http.StatusNotFound, codeComicNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound, codeUserNotFound},
	{domain.ErrReservationNotFound, http.StatusNotFound, codeReservationNotFound},
	{domain.ErrSaleNotProcessable, http.StatusConflict, codeSaleNotProcessable},
}
