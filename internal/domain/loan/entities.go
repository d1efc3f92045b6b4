package loan

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("loan not found")
	ErrAlreadyExists = errors.New("loan id already registered")
	ErrInvalidStatus = errors.New("loan is not in a status that allows this operation")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusOverdue   Status = "overdue"
	StatusClosed    Status = "closed"
	StatusDefaulted Status = "defaulted"
)

// Terminal reports whether no further transition can leave s.
func (s Status) Terminal() bool { return s == StatusClosed || s == StatusDefaulted }

// Repayable reports whether the loan still accepts repayments. An overdue
// loan must remain repayable or it could never reach closed.
func (s Status) Repayable() bool { return s == StatusActive || s == StatusOverdue }

// Loan terms are immutable after registration; only status, total_repaid and
// last_payment_height change, and only through the repayment engine. Amounts
// are integer minor units, heights are abstract time units.
type Loan struct {
	ID                uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID            string    `gorm:"size:64;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	Borrower          string    `gorm:"size:32;index:idx_loans_borrower" json:"borrower"`
	Lender            string    `gorm:"size:32;index:idx_loans_lender" json:"lender"`
	Principal         int64     `gorm:"column:principal" json:"principal"`
	InterestRateBps   int64     `gorm:"column:interest_rate_bps" json:"interest_rate_bps"`
	Duration          int64     `gorm:"column:duration" json:"duration"`
	StartHeight       int64     `gorm:"column:start_height" json:"start_height"`
	Status            Status    `gorm:"size:16;column:status" json:"status"`
	TotalRepaid       int64     `gorm:"column:total_repaid" json:"total_repaid"`
	LastPaymentHeight *int64    `gorm:"column:last_payment_height" json:"last_payment_height,omitempty"`
	Metadata          string    `gorm:"type:text" json:"metadata"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "loans" }
