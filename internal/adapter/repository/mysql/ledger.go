package mysql

import (
	"context"
	"errors"

	ledgerDomain "microloan-ledger/internal/domain/ledger"

	"gorm.io/gorm"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Get(ctx context.Context) (*ledgerDomain.State, error) {
	var out ledgerDomain.State
	res := r.db.WithContext(ctx).Where("id = ?", ledgerDomain.StateRowID).First(&out)
	return &out, res.Error
}

func (r *LedgerRepository) GetForUpdate(ctx context.Context) (*ledgerDomain.State, error) {
	var out ledgerDomain.State
	res := forUpdate(r.db.WithContext(ctx)).
		Where("id = ?", ledgerDomain.StateRowID).
		First(&out)
	return &out, res.Error
}

func (r *LedgerRepository) Save(ctx context.Context, s *ledgerDomain.State) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *LedgerRepository) Ensure(ctx context.Context, seed *ledgerDomain.State) error {
	var existing ledgerDomain.State
	err := r.db.WithContext(ctx).Where("id = ?", ledgerDomain.StateRowID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	seed.ID = ledgerDomain.StateRowID
	return r.db.WithContext(ctx).Create(seed).Error
}
