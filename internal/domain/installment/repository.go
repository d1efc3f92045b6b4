package installment

import "context"

type Repository interface {
	Create(ctx context.Context, i *Installment) error
	Get(ctx context.Context, loanID string, installmentID uint64) (*Installment, error)
	GetForUpdate(ctx context.Context, loanID string, installmentID uint64) (*Installment, error)
	// ListByLoanID returns the full schedule ordered by installment_id.
	ListByLoanID(ctx context.Context, loanID string) ([]Installment, error)
	Save(ctx context.Context, i *Installment) error
}
