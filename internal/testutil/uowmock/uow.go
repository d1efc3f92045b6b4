package uowmock

import (
	"context"
	"errors"

	"microloan-ledger/internal/domain/ledger"
	"microloan-ledger/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return
// errUnimplemented.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLedgerTxFn func(ctx context.Context, fn func(r uow.Repos, st *ledger.State) error) error
}

func New() *UoW { return &UoW{} }

// WithState wires WithinLedgerTx to hand fn the given state and empty repos;
// handy for pure authorization/pause-gate tests.
func WithState(st *ledger.State) *UoW {
	return &UoW{
		WithinLedgerTxFn: func(ctx context.Context, fn func(r uow.Repos, st *ledger.State) error) error {
			return fn(uow.Repos{}, st)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLedgerTx(ctx context.Context, fn func(r uow.Repos, st *ledger.State) error) error {
	if m.WithinLedgerTxFn != nil {
		return m.WithinLedgerTxFn(ctx, fn)
	}
	return errUnimplemented
}
