package uow

import (
	"context"

	"microloan-ledger/internal/domain/installment"
	"microloan-ledger/internal/domain/ledger"
	"microloan-ledger/internal/domain/loan"
	"microloan-ledger/internal/domain/payment"
)

type Repos struct {
	Ledger       ledger.Repository
	Loans        loan.Repository
	Installments installment.Repository
	Payments     payment.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn in one transaction; fn's error rolls everything back.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLedgerTx additionally locks the singleton ledger-state row before
	// calling fn. Every mutating operation uses this, which gives the global
	// one-writer-at-a-time ordering the ledger's invariants rely on.
	WithinLedgerTx(ctx context.Context, fn func(r Repos, st *ledger.State) error) error
}
