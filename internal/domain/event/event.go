package event

import "context"

type Type string

const (
	TypeLoanRegistered Type = "loan.registered"
	TypeRepayment      Type = "loan.repayment"
	TypeDefaulted      Type = "loan.defaulted"
)

// Event is a state-change notification for the credit-history collaborator.
// Delivery is fire-and-forget: the core never blocks on, or fails because of,
// the consumer.
type Event struct {
	EventID string `json:"event_id"`
	Type    Type   `json:"type"`
	LoanID  string `json:"loan_id"`
	Amount  int64  `json:"amount,omitempty"`
	IsLate  bool   `json:"is_late,omitempty"`
	Height  int64  `json:"height"`
}

type Emitter interface {
	Emit(ctx context.Context, ev Event)
}

// Nop drops every event; used where no broker is wired.
type Nop struct{}

func (Nop) Emit(context.Context, Event) {}
