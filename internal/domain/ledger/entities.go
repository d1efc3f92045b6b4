package ledger

import (
	"errors"
	"time"
)

// Cross-cutting failure kinds shared by every operation. Entity-specific
// kinds (not found, already exists, ...) live with their entity packages.
var (
	ErrUnauthorized    = errors.New("caller is not authorized for this operation")
	ErrPaused          = errors.New("ledger is paused")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrMetadataTooLong = errors.New("text field exceeds maximum length")
)

// MaxTextLen bounds free-text fields (loan metadata, payment notes).
const MaxTextLen = 256

// State is the process-wide singleton row: admin identity, pause flag and the
// monotonic counters that mint loan totals and payment history ids.
type State struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	Admin         string    `gorm:"size:32;column:admin" json:"admin"`
	Originator    string    `gorm:"size:32;column:originator" json:"originator"`
	Paused        bool      `gorm:"column:paused" json:"paused"`
	TotalLoans    uint64    `gorm:"column:total_loans" json:"total_loans"`
	TotalPayments uint64    `gorm:"column:total_payments" json:"total_payments"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (State) TableName() string { return "ledger_state" }

// StateRowID is the fixed primary key of the singleton row.
const StateRowID uint64 = 1
