package payment

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("payment record not found")

// Record is one accepted repayment event. The log is append-only: records are
// never mutated or deleted, and history_id values form a contiguous strictly
// increasing sequence starting at 1 (minted from the ledger total_payments
// counter inside the same transaction as the append).
type Record struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	HistoryID     uint64    `gorm:"column:history_id;uniqueIndex:ux_payments_history_id" json:"history_id"`
	LoanID        string    `gorm:"size:64;index:idx_payments_loan" json:"loan_id"`
	InstallmentID uint64    `gorm:"column:installment_id" json:"installment_id"`
	Payer         string    `gorm:"size:32" json:"payer"`
	Amount        int64     `gorm:"column:amount" json:"amount"`
	PaidHeight    int64     `gorm:"column:paid_height" json:"paid_height"`
	IsLate        bool      `gorm:"column:is_late" json:"is_late"`
	PenaltyAmount int64     `gorm:"column:penalty_amount" json:"penalty_amount"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Record) TableName() string { return "payment_records" }
