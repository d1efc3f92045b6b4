package repayment

import (
	"context"
	"errors"

	"microloan-ledger/internal/domain/event"
	"microloan-ledger/internal/domain/installment"
	"microloan-ledger/internal/domain/ledger"
	"microloan-ledger/internal/domain/loan"
	"microloan-ledger/internal/domain/payment"
	"microloan-ledger/internal/domain/uow"
	"microloan-ledger/pkg/clock"
	"microloan-ledger/pkg/id"

	"gorm.io/gorm"
)

// Usecase is the repayment engine: it validates payments against individual
// installments, computes overdue penalties, appends the payment log and drives
// the loan status machine. Every mutating call runs inside one ledger
// transaction; a failed precondition rolls the whole thing back, so the
// installment stays unpaid and no payment record is appended.
type Usecase struct {
	uow    uow.UnitOfWork
	clock  clock.Clock
	events event.Emitter
}

func NewUsecase(tx uow.UnitOfWork, clk clock.Clock, ev event.Emitter) *Usecase {
	return &Usecase{uow: tx, clock: clk, events: ev}
}

type SubmitInput struct {
	LoanID        string
	InstallmentID uint64
	Amount        int64
	Notes         string
}

type PaymentDTO struct {
	HistoryID     uint64 `json:"history_id"`
	LoanID        string `json:"loan_id"`
	InstallmentID uint64 `json:"installment_id"`
	Payer         string `json:"payer"`
	Amount        int64  `json:"amount"`
	PenaltyAmount int64  `json:"penalty_amount"`
	IsLate        bool   `json:"is_late"`
	PaidHeight    int64  `json:"paid_height"`
	LoanStatus    string `json:"loan_status"`
	Notes         string `json:"notes,omitempty"`
}

// Submit processes one repayment. Preconditions run in a fixed order and the
// first failure wins: paused, loan exists, installment exists, caller is the
// borrower, loan repayable, installment unpaid, notes within bound, amount
// covers due plus penalty. Overpayment is accepted as paid; no change is
// returned.
func (u *Usecase) Submit(ctx context.Context, caller string, in SubmitInput) (*PaymentDTO, error) {
	now := u.clock.Height()
	var dto *PaymentDTO

	err := u.uow.WithinLedgerTx(ctx, func(r uow.Repos, st *ledger.State) error {
		if st.Paused {
			return ledger.ErrPaused
		}

		l, err := r.Loans.GetByLoanIDForUpdate(ctx, in.LoanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrNotFound
			}
			return err
		}
		inst, err := r.Installments.GetForUpdate(ctx, in.LoanID, in.InstallmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return installment.ErrNotFound
			}
			return err
		}

		if caller != l.Borrower {
			return ledger.ErrUnauthorized
		}
		if !l.Status.Repayable() {
			return loan.ErrInvalidStatus
		}
		if inst.IsPaid {
			return installment.ErrAlreadyPaid
		}
		if len(in.Notes) > ledger.MaxTextLen {
			return ledger.ErrMetadataTooLong
		}

		penalty := inst.PenaltyAt(now)
		isLate := inst.OverdueUnits(now) > 0
		totalDue := inst.DueAmount + penalty
		if in.Amount < totalDue {
			return ledger.ErrInvalidAmount
		}

		paidAt := now
		inst.PaidAmount = in.Amount
		inst.PaidHeight = &paidAt
		inst.IsPaid = true
		inst.PenaltyApplied = isLate
		if err := r.Installments.Save(ctx, inst); err != nil {
			return err
		}

		l.TotalRepaid += in.Amount
		l.LastPaymentHeight = &paidAt

		st.TotalPayments++
		rec := &payment.Record{
			HistoryID:     st.TotalPayments,
			LoanID:        in.LoanID,
			InstallmentID: in.InstallmentID,
			Payer:         caller,
			Amount:        in.Amount,
			PaidHeight:    now,
			IsLate:        isLate,
			PenaltyAmount: penalty,
			Notes:         in.Notes,
		}
		if err := r.Payments.Create(ctx, rec); err != nil {
			return err
		}

		// Status re-evaluation: full scan over the loan's schedule. The list
		// is read after the installment save, so it reflects this payment.
		sched, err := r.Installments.ListByLoanID(ctx, in.LoanID)
		if err != nil {
			return err
		}
		switch {
		case installment.AllPaid(sched):
			l.Status = loan.StatusClosed
		case installment.SchedulePastDue(sched, now):
			l.Status = loan.StatusOverdue
		}

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Ledger.Save(ctx, st); err != nil {
			return err
		}

		dto = &PaymentDTO{
			HistoryID:     rec.HistoryID,
			LoanID:        rec.LoanID,
			InstallmentID: rec.InstallmentID,
			Payer:         rec.Payer,
			Amount:        rec.Amount,
			PenaltyAmount: rec.PenaltyAmount,
			IsLate:        rec.IsLate,
			PaidHeight:    rec.PaidHeight,
			LoanStatus:    string(l.Status),
			Notes:         rec.Notes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.Emit(ctx, event.Event{
		EventID: id.NewID32(),
		Type:    event.TypeRepayment,
		LoanID:  dto.LoanID,
		Amount:  dto.Amount,
		IsLate:  dto.IsLate,
		Height:  now,
	})
	return dto, nil
}

// MarkDefaulted forces a loan into the defaulted terminal state. Lender-only;
// allowed from active or overdue, never out of closed or defaulted.
func (u *Usecase) MarkDefaulted(ctx context.Context, caller, loanID string) (string, error) {
	now := u.clock.Height()
	var status string

	err := u.uow.WithinLedgerTx(ctx, func(r uow.Repos, st *ledger.State) error {
		if st.Paused {
			return ledger.ErrPaused
		}
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrNotFound
			}
			return err
		}
		if caller != l.Lender {
			return ledger.ErrUnauthorized
		}
		if !l.Status.Repayable() {
			return loan.ErrInvalidStatus
		}
		l.Status = loan.StatusDefaulted
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		status = string(l.Status)
		return nil
	})
	if err != nil {
		return "", err
	}

	u.events.Emit(ctx, event.Event{
		EventID: id.NewID32(),
		Type:    event.TypeDefaulted,
		LoanID:  loanID,
		Height:  now,
	})
	return status, nil
}

// RefreshStatus re-evaluates a loan's status without a payment event; callable
// by anyone and idempotent. Terminal states are left untouched.
func (u *Usecase) RefreshStatus(ctx context.Context, loanID string) (string, error) {
	now := u.clock.Height()
	var status string

	err := u.uow.WithinLedgerTx(ctx, func(r uow.Repos, st *ledger.State) error {
		if st.Paused {
			return ledger.ErrPaused
		}
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrNotFound
			}
			return err
		}
		status = string(l.Status)
		if l.Status.Terminal() {
			return nil
		}

		sched, err := r.Installments.ListByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		next := l.Status
		switch {
		case installment.AllPaid(sched):
			next = loan.StatusClosed
		case installment.SchedulePastDue(sched, now):
			next = loan.StatusOverdue
		}
		if next == l.Status {
			return nil
		}
		l.Status = next
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		status = string(next)
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}
