package registration

import (
	"context"
	"errors"

	"microloan-ledger/internal/domain/event"
	"microloan-ledger/internal/domain/installment"
	"microloan-ledger/internal/domain/ledger"
	"microloan-ledger/internal/domain/loan"
	"microloan-ledger/internal/domain/uow"
	"microloan-ledger/pkg/clock"
	"microloan-ledger/pkg/id"

	"gorm.io/gorm"
)

// Usecase is the loan-origination surface: register a loan and populate its
// installment schedule. Both calls are restricted to the configured
// origination identity; schedule shape is the caller's policy, the ledger
// enforces no installment count.
type Usecase struct {
	uow    uow.UnitOfWork
	clock  clock.Clock
	events event.Emitter
}

func NewUsecase(tx uow.UnitOfWork, clk clock.Clock, ev event.Emitter) *Usecase {
	return &Usecase{uow: tx, clock: clk, events: ev}
}

type RegisterLoanInput struct {
	LoanID          string
	Borrower        string
	Lender          string
	Principal       int64
	InterestRateBps int64
	Duration        int64
	Metadata        string
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

func toLoanDTO(l *loan.Loan) *LoanDTO {
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
	}
}

func (u *Usecase) RegisterLoan(ctx context.Context, caller string, in RegisterLoanInput) (*LoanDTO, error) {
	now := u.clock.Height()
	var dto *LoanDTO

	err := u.uow.WithinLedgerTx(ctx, func(r uow.Repos, st *ledger.State) error {
		if st.Paused {
			return ledger.ErrPaused
		}
		if caller != st.Originator {
			return ledger.ErrUnauthorized
		}
		if in.Principal <= 0 {
			return ledger.ErrInvalidAmount
		}
		if len(in.Metadata) > ledger.MaxTextLen {
			return ledger.ErrMetadataTooLong
		}

		// Reusing a loan_id is a distinct conflict, never reported as not-found.
		_, err := r.Loans.GetByLoanID(ctx, in.LoanID)
		switch {
		case err == nil:
			return loan.ErrAlreadyExists
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		l := &loan.Loan{
			LoanID:          in.LoanID,
			Borrower:        in.Borrower,
			Lender:          in.Lender,
			Principal:       in.Principal,
			InterestRateBps: in.InterestRateBps,
			Duration:        in.Duration,
			StartHeight:     now,
			Status:          loan.StatusActive,
			TotalRepaid:     0,
			Metadata:        in.Metadata,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		st.TotalLoans++
		if err := r.Ledger.Save(ctx, st); err != nil {
			return err
		}

		dto = toLoanDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.events.Emit(ctx, event.Event{
		EventID: id.NewID32(),
		Type:    event.TypeLoanRegistered,
		LoanID:  in.LoanID,
		Height:  now,
	})
	return dto, nil
}

type AddInstallmentInput struct {
	LoanID        string
	InstallmentID uint64
	DueHeight     int64
	DueAmount     int64
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

func toInstallmentDTO(i *installment.Installment) *InstallmentDTO {
	return &InstallmentDTO{
		LoanID:         i.LoanID,
		InstallmentID:  i.InstallmentID,
		DueHeight:      i.DueHeight,
		DueAmount:      i.DueAmount,
		PaidAmount:     i.PaidAmount,
		PaidHeight:     i.PaidHeight,
		IsPaid:         i.IsPaid,
		PenaltyApplied: i.PenaltyApplied,
	}
}

func (u *Usecase) AddInstallment(ctx context.Context, caller string, in AddInstallmentInput) (*InstallmentDTO, error) {
	var dto *InstallmentDTO

	err := u.uow.WithinLedgerTx(ctx, func(r uow.Repos, st *ledger.State) error {
		if st.Paused {
			return ledger.ErrPaused
		}
		if caller != st.Originator {
			return ledger.ErrUnauthorized
		}

		l, err := r.Loans.GetByLoanID(ctx, in.LoanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrNotFound
			}
			return err
		}

		if in.DueAmount <= 0 {
			return ledger.ErrInvalidAmount
		}
		if in.DueHeight <= l.StartHeight {
			return installment.ErrInvalidTimestamp
		}

		_, err = r.Installments.Get(ctx, in.LoanID, in.InstallmentID)
		switch {
		case err == nil:
			return installment.ErrAlreadyExists
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		inst := &installment.Installment{
			LoanID:        in.LoanID,
			InstallmentID: in.InstallmentID,
			DueHeight:     in.DueHeight,
			DueAmount:     in.DueAmount,
		}
		if err := r.Installments.Create(ctx, inst); err != nil {
			return err
		}
		dto = toInstallmentDTO(inst)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
