package http

import (
	"errors"
	"net/http"

	"microloan-ledger/internal/domain/installment"
	"microloan-ledger/internal/domain/ledger"
	"microloan-ledger/internal/domain/loan"
	"microloan-ledger/internal/domain/payment"

	"github.com/labstack/echo/v4"
)

// statusFor maps domain failure kinds to HTTP codes. Every failure is a
// rejected operation, never a crash; unknown errors are the only 500s.
func statusFor(err error) int {
	switch {
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, installment.ErrNotFound),
		errors.Is(err, payment.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrPaused),
		errors.Is(err, loan.ErrAlreadyExists),
		errors.Is(err, loan.ErrInvalidStatus),
		errors.Is(err, installment.ErrAlreadyExists),
		errors.Is(err, installment.ErrAlreadyPaid):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrMetadataTooLong),
		errors.Is(err, installment.ErrInvalidTimestamp):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainErr(c echo.Context, err error) error {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}
