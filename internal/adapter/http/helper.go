package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// CallerHeader carries the authenticated principal for every role-gated call.
// Authentication itself is upstream; the ledger only does role checks.
const CallerHeader = "Ax-Caller-Id"

func callerID(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(CallerHeader))
}

func pathInstallmentID(c echo.Context) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param("installment_id"), 10, 64)
	return n, err == nil
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
