package http

import (
	"net/http"
	"strconv"

	"microloan-ledger/internal/usecase/query"
	"microloan-ledger/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
)

// RepaymentHandler serves the borrower repayment surface, the lender default
// surface, the public status refresh and payment-record reads.
type RepaymentHandler struct {
	rep *repayment.Usecase
	q   *query.Usecase
}

func NewRepaymentHandler(rep *repayment.Usecase, q *query.Usecase) *RepaymentHandler {
	return &RepaymentHandler{rep: rep, q: q}
}

type submitRepaymentReq struct {
	Amount int64  `json:"amount"`
	Notes  string `json:"notes"`
}

func (h *RepaymentHandler) SubmitRepayment(c echo.Context) error {
	instID, ok := pathInstallmentID(c)
	if !ok {
		return badRequest(c, "invalid installment_id")
	}
	var req submitRepaymentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	dto, err := h.rep.Submit(c.Request().Context(), callerID(c), repayment.SubmitInput{
		LoanID:        c.Param("loan_id"),
		InstallmentID: instID,
		Amount:        req.Amount,
		Notes:         req.Notes,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *RepaymentHandler) MarkDefaulted(c echo.Context) error {
	status, err := h.rep.MarkDefaulted(c.Request().Context(), callerID(c), c.Param("loan_id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"loan_id": c.Param("loan_id"), "status": status})
}

func (h *RepaymentHandler) RefreshStatus(c echo.Context) error {
	status, err := h.rep.RefreshStatus(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"loan_id": c.Param("loan_id"), "status": status})
}

func (h *RepaymentHandler) GetPaymentRecord(c echo.Context) error {
	historyID, err := strconv.ParseUint(c.Param("history_id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid history_id")
	}
	dto, err := h.q.GetPaymentRecord(c.Request().Context(), historyID)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
