package mysql

import (
	"context"

	instDomain "microloan-ledger/internal/domain/installment"

	"gorm.io/gorm"
)

type InstallmentRepository struct{ db *gorm.DB }

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func (r *InstallmentRepository) Create(ctx context.Context, i *instDomain.Installment) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *InstallmentRepository) Save(ctx context.Context, i *instDomain.Installment) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *InstallmentRepository) Get(ctx context.Context, loanID string, installmentID uint64) (*instDomain.Installment, error) {
	var out instDomain.Installment
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND installment_id = ?", loanID, installmentID).
		First(&out)
	return &out, res.Error
}

func (r *InstallmentRepository) GetForUpdate(ctx context.Context, loanID string, installmentID uint64) (*instDomain.Installment, error) {
	var out instDomain.Installment
	res := forUpdate(r.db.WithContext(ctx)).
		Where("loan_id = ? AND installment_id = ?", loanID, installmentID).
		First(&out)
	return &out, res.Error
}

func (r *InstallmentRepository) ListByLoanID(ctx context.Context, loanID string) ([]instDomain.Installment, error) {
	var out []instDomain.Installment
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("installment_id ASC").
		Find(&out)
	return out, res.Error
}
