package mysql

import (
	"context"

	paymentDomain "microloan-ledger/internal/domain/payment"

	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, rec *paymentDomain.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *PaymentRepository) GetByHistoryID(ctx context.Context, historyID uint64) (*paymentDomain.Record, error) {
	var out paymentDomain.Record
	res := r.db.WithContext(ctx).Where("history_id = ?", historyID).First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) ListByLoanID(ctx context.Context, loanID string) ([]paymentDomain.Record, error) {
	var out []paymentDomain.Record
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("history_id ASC").
		Find(&out)
	return out, res.Error
}
