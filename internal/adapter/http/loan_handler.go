package http

import (
	"net/http"

	"microloan-ledger/internal/usecase/query"
	"microloan-ledger/internal/usecase/registration"

	"github.com/labstack/echo/v4"
)

// LoanHandler serves loan registration, schedule population and the loan
// read surface.
type LoanHandler struct {
	reg *registration.Usecase
	q   *query.Usecase
}

func NewLoanHandler(reg *registration.Usecase, q *query.Usecase) *LoanHandler {
	return &LoanHandler{reg: reg, q: q}
}

type registerLoanReq struct {
	LoanID          string `json:"loan_id"           validate:"required,max=64"`
	Borrower        string `json:"borrower"          validate:"required,hex32"`
	Lender          string `json:"lender"            validate:"required,hex32"`
	Principal       int64  `json:"principal"`
	InterestRateBps int64  `json:"interest_rate_bps"`
	Duration        int64  `json:"duration"`
	Metadata        string `json:"metadata"`
}

func (h *LoanHandler) RegisterLoan(c echo.Context) error {
	var req registerLoanReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.reg.RegisterLoan(c.Request().Context(), callerID(c), registration.RegisterLoanInput{
		LoanID:          req.LoanID,
		Borrower:        req.Borrower,
		Lender:          req.Lender,
		Principal:       req.Principal,
		InterestRateBps: req.InterestRateBps,
		Duration:        req.Duration,
		Metadata:        req.Metadata,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type addInstallmentReq struct {
	InstallmentID uint64 `json:"installment_id" validate:"required"`
	DueHeight     int64  `json:"due_height"`
	DueAmount     int64  `json:"due_amount"`
}

func (h *LoanHandler) AddInstallment(c echo.Context) error {
	var req addInstallmentReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.reg.AddInstallment(c.Request().Context(), callerID(c), registration.AddInstallmentInput{
		LoanID:        c.Param("loan_id"),
		InstallmentID: req.InstallmentID,
		DueHeight:     req.DueHeight,
		DueAmount:     req.DueAmount,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.q.GetLoan(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetInstallment(c echo.Context) error {
	instID, ok := pathInstallmentID(c)
	if !ok {
		return badRequest(c, "invalid installment_id")
	}
	dto, err := h.q.GetInstallment(c.Request().Context(), c.Param("loan_id"), instID)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetTotalRepaid(c echo.Context) error {
	total, err := h.q.GetTotalRepaid(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"total_repaid": total})
}

func (h *LoanHandler) GetOutstandingBalance(c echo.Context) error {
	bal, err := h.q.GetOutstandingBalance(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"outstanding_balance": bal})
}

func (h *LoanHandler) IsOverdue(c echo.Context) error {
	overdue, err := h.q.IsOverdue(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"is_overdue": overdue})
}

func (h *LoanHandler) ListPayments(c echo.Context) error {
	recs, err := h.q.ListPayments(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, recs)
}
