package ledger

import "context"

type Repository interface {
	// Get returns the singleton state row.
	Get(ctx context.Context) (*State, error)
	// GetForUpdate locks the singleton row for the duration of the enclosing
	// transaction; every mutating operation goes through this lock, which is
	// what serializes writers on a ledger instance.
	GetForUpdate(ctx context.Context) (*State, error)
	Save(ctx context.Context, s *State) error
	// Ensure creates the singleton row with the given seed if it is absent.
	Ensure(ctx context.Context, seed *State) error
}
