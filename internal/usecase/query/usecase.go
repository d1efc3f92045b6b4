package query

import (
	"context"
	"errors"

	"microloan-ledger/internal/domain/installment"
	"microloan-ledger/internal/domain/ledger"
	"microloan-ledger/internal/domain/loan"
	"microloan-ledger/internal/domain/payment"
	"microloan-ledger/pkg/clock"

	"gorm.io/gorm"
)

// Usecase is the public read surface. All queries are side-effect-free and
// fail only with not-found; they run outside the write path on plain repos.
type Usecase struct {
	ledger       ledger.Repository
	loans        loan.Repository
	installments installment.Repository
	payments     payment.Repository
	clock        clock.Clock
}

func NewUsecase(
	led ledger.Repository,
	loans loan.Repository,
	installments installment.Repository,
	payments payment.Repository,
	clk clock.Clock,
) *Usecase {
	return &Usecase{ledger: led, loans: loans, installments: installments, payments: payments, clock: clk}
}

type LoanDTO struct {
	LoanID            string `json:"loan_id"`
	Borrower          string `json:"borrower"`
	Lender            string `json:"lender"`
	Principal         int64  `json:"principal"`
	InterestRateBps   int64  `json:"interest_rate_bps"`
	Duration          int64  `json:"duration"`
	StartHeight       int64  `json:"start_height"`
	Status            string `json:"status"`
	TotalRepaid       int64  `json:"total_repaid"`
	LastPaymentHeight *int64 `json:"last_payment_height,omitempty"`
	Metadata          string `json:"metadata,omitempty"`
}

type InstallmentDTO struct {
	LoanID         string `json:"loan_id"`
	InstallmentID  uint64 `json:"installment_id"`
	DueHeight      int64  `json:"due_height"`
	DueAmount      int64  `json:"due_amount"`
	PaidAmount     int64  `json:"paid_amount"`
	PaidHeight     *int64 `json:"paid_height,omitempty"`
	IsPaid         bool   `json:"is_paid"`
	PenaltyApplied bool   `json:"penalty_applied"`
}

type PaymentDTO struct {
	HistoryID     uint64 `json:"history_id"`
	LoanID        string `json:"loan_id"`
	InstallmentID uint64 `json:"installment_id"`
	Payer         string `json:"payer"`
	Amount        int64  `json:"amount"`
	PaidHeight    int64  `json:"paid_height"`
	IsLate        bool   `json:"is_late"`
	PenaltyAmount int64  `json:"penalty_amount"`
	Notes         string `json:"notes,omitempty"`
}

type StatsDTO struct {
	Admin         string `json:"admin"`
	Paused        bool   `json:"paused"`
	TotalLoans    uint64 `json:"total_loans"`
	TotalPayments uint64 `json:"total_payments"`
}

func (u *Usecase) GetLoan(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	return &LoanDTO{
		LoanID:            l.LoanID,
		Borrower:          l.Borrower,
		Lender:            l.Lender,
		Principal:         l.Principal,
		InterestRateBps:   l.InterestRateBps,
		Duration:          l.Duration,
		StartHeight:       l.StartHeight,
		Status:            string(l.Status),
		TotalRepaid:       l.TotalRepaid,
		LastPaymentHeight: l.LastPaymentHeight,
		Metadata:          l.Metadata,
	}, nil
}

func (u *Usecase) GetInstallment(ctx context.Context, loanID string, installmentID uint64) (*InstallmentDTO, error) {
	i, err := u.installments.Get(ctx, loanID, installmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, installment.ErrNotFound
		}
		return nil, err
	}
	return &InstallmentDTO{
		LoanID:         i.LoanID,
		InstallmentID:  i.InstallmentID,
		DueHeight:      i.DueHeight,
		DueAmount:      i.DueAmount,
		PaidAmount:     i.PaidAmount,
		PaidHeight:     i.PaidHeight,
		IsPaid:         i.IsPaid,
		PenaltyApplied: i.PenaltyApplied,
	}, nil
}

func (u *Usecase) GetPaymentRecord(ctx context.Context, historyID uint64) (*PaymentDTO, error) {
	rec, err := u.payments.GetByHistoryID(ctx, historyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrNotFound
		}
		return nil, err
	}
	return toPaymentDTO(rec), nil
}

func (u *Usecase) ListPayments(ctx context.Context, loanID string) ([]PaymentDTO, error) {
	if _, err := u.loans.GetByLoanID(ctx, loanID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loan.ErrNotFound
		}
		return nil, err
	}
	recs, err := u.payments.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentDTO, 0, len(recs))
	for i := range recs {
		out = append(out, *toPaymentDTO(&recs[i]))
	}
	return out, nil
}

func toPaymentDTO(rec *payment.Record) *PaymentDTO {
	return &PaymentDTO{
		HistoryID:     rec.HistoryID,
		LoanID:        rec.LoanID,
		InstallmentID: rec.InstallmentID,
		Payer:         rec.Payer,
		Amount:        rec.Amount,
		PaidHeight:    rec.PaidHeight,
		IsLate:        rec.IsLate,
		PenaltyAmount: rec.PenaltyAmount,
		Notes:         rec.Notes,
	}
}

func (u *Usecase) GetTotalRepaid(ctx context.Context, loanID string) (int64, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, loan.ErrNotFound
		}
		return 0, err
	}
	return l.TotalRepaid, nil
}

// IsOverdue reports whether the loan is past its nominal end with unpaid
// installments, computed live at the current height; a stored overdue status
// also counts. Closed and defaulted loans are never overdue.
func (u *Usecase) IsOverdue(ctx context.Context, loanID string) (bool, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, loan.ErrNotFound
		}
		return false, err
	}
	if l.Status == loan.StatusOverdue {
		return true, nil
	}
	if l.Status.Terminal() {
		return false, nil
	}
	sched, err := u.installments.ListByLoanID(ctx, loanID)
	if err != nil {
		return false, err
	}
	return installment.SchedulePastDue(sched, u.clock.Height()), nil
}

// GetOutstandingBalance is the total charged on the schedule minus the loan's
// total repaid. Unpaid installments contribute their due amount plus the
// penalty accruing at the current height; paid installments contribute their
// due amount plus the penalty that was charged at their paid height. The
// result is clamped at zero so an overpaid loan reads as settled, never
// negative.
func (u *Usecase) GetOutstandingBalance(ctx context.Context, loanID string) (int64, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, loan.ErrNotFound
		}
		return 0, err
	}
	sched, err := u.installments.ListByLoanID(ctx, loanID)
	if err != nil {
		return 0, err
	}
	now := u.clock.Height()
	var outstanding int64
	for i := range sched {
		outstanding += sched[i].DueAmount
		if sched[i].IsPaid {
			if sched[i].PaidHeight != nil {
				outstanding += sched[i].PenaltyAt(*sched[i].PaidHeight)
			}
		} else {
			outstanding += sched[i].PenaltyAt(now)
		}
	}
	outstanding -= l.TotalRepaid
	if outstanding < 0 {
		outstanding = 0
	}
	return outstanding, nil
}

func (u *Usecase) GetStats(ctx context.Context) (*StatsDTO, error) {
	st, err := u.ledger.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsDTO{
		Admin:         st.Admin,
		Paused:        st.Paused,
		TotalLoans:    st.TotalLoans,
		TotalPayments: st.TotalPayments,
	}, nil
}
