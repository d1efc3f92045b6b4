package installment

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("installment not found")
	ErrAlreadyExists    = errors.New("installment id already exists for this loan")
	ErrAlreadyPaid      = errors.New("installment already paid")
	ErrInvalidTimestamp = errors.New("installment due height must be after loan start")
)

// Installment is one scheduled obligation, keyed (loan_id, installment_id).
// due_height/due_amount are immutable; the paid_* fields are set exactly once,
// on the single accepted payment, after which the row never changes again.
// LoanID is a non-owning association key: removing a loan (there is no delete
// operation) would never cascade here.
type Installment struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID         string    `gorm:"size:64;uniqueIndex:ux_installments_loan_seq;index:idx_installments_loan" json:"loan_id"`
	InstallmentID  uint64    `gorm:"column:installment_id;uniqueIndex:ux_installments_loan_seq" json:"installment_id"`
	DueHeight      int64     `gorm:"column:due_height" json:"due_height"`
	DueAmount      int64     `gorm:"column:due_amount" json:"due_amount"`
	PaidAmount     int64     `gorm:"column:paid_amount" json:"paid_amount"`
	PaidHeight     *int64    `gorm:"column:paid_height" json:"paid_height,omitempty"`
	IsPaid         bool      `gorm:"column:is_paid" json:"is_paid"`
	PenaltyApplied bool      `gorm:"column:penalty_applied" json:"penalty_applied"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Installment) TableName() string { return "installments" }
