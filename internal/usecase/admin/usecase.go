package admin

import (
	"context"

	"microloan-ledger/internal/domain/ledger"
	"microloan-ledger/internal/domain/uow"
	"microloan-ledger/pkg/id"
)

// Usecase is the administrative surface: pause/unpause the ledger and hand
// over admin rights. Every call is gated on the caller being the current
// admin; pause state does not block these (the admin must be able to unpause).
type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

func (u *Usecase) Pause(ctx context.Context, caller string) error {
	return u.uow.WithinLedgerTx(ctx, func(r uow.Repos, st *ledger.State) error {
		if caller != st.Admin {
			return ledger.ErrUnauthorized
		}
		if st.Paused {
			return nil // already paused, idempotent
		}
		st.Paused = true
		return r.Ledger.Save(ctx, st)
	})
}

func (u *Usecase) Unpause(ctx context.Context, caller string) error {
	return u.uow.WithinLedgerTx(ctx, func(r uow.Repos, st *ledger.State) error {
		if caller != st.Admin {
			return ledger.ErrUnauthorized
		}
		if !st.Paused {
			return nil
		}
		st.Paused = false
		return r.Ledger.Save(ctx, st)
	})
}

func (u *Usecase) TransferAdmin(ctx context.Context, caller, newAdmin string) error {
	if !id.Valid32(newAdmin) {
		return ledger.ErrUnauthorized
	}
	return u.uow.WithinLedgerTx(ctx, func(r uow.Repos, st *ledger.State) error {
		if caller != st.Admin {
			return ledger.ErrUnauthorized
		}
		st.Admin = newAdmin
		return r.Ledger.Save(ctx, st)
	})
}
