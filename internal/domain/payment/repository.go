package payment

import "context"

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByHistoryID(ctx context.Context, historyID uint64) (*Record, error)
	// ListByLoanID returns the loan's records ordered by history_id.
	ListByLoanID(ctx context.Context, loanID string) ([]Record, error)
}
