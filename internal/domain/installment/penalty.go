package installment

// OverdueUnits is how many time units past due the installment is at height
// now; zero when not yet due.
func (i *Installment) OverdueUnits(now int64) int64 {
	if now <= i.DueHeight {
		return 0
	}
	return now - i.DueHeight
}

// PenaltyAt is the penalty owed on this installment at height now:
//
//	penalty = min(due_amount * overdue_units / 100, due_amount * 10)
//
// Integer floor arithmetic. The division ordering quantizes accrual in
// 100-unit steps; that is the contract of record, not a rounding bug to fix
// here (flagged for product review).
func (i *Installment) PenaltyAt(now int64) int64 {
	overdue := i.OverdueUnits(now)
	if overdue == 0 {
		return 0
	}
	penalty := i.DueAmount * overdue / 100
	if cap := i.DueAmount * 10; penalty > cap {
		penalty = cap
	}
	return penalty
}

// TotalDueAt is due_amount plus the penalty accrued at height now.
func (i *Installment) TotalDueAt(now int64) int64 {
	return i.DueAmount + i.PenaltyAt(now)
}

// AllPaid reports whether every installment in the schedule is settled.
// An empty schedule is not considered settled.
func AllPaid(schedule []Installment) bool {
	if len(schedule) == 0 {
		return false
	}
	for i := range schedule {
		if !schedule[i].IsPaid {
			return false
		}
	}
	return true
}

// SchedulePastDue reports whether the loan's nominal end is past due: some
// installment is unpaid and now exceeds the due height of the furthest-future
// unpaid installment.
func SchedulePastDue(schedule []Installment, now int64) bool {
	var maxUnpaid int64
	found := false
	for i := range schedule {
		if schedule[i].IsPaid {
			continue
		}
		found = true
		if schedule[i].DueHeight > maxUnpaid {
			maxUnpaid = schedule[i].DueHeight
		}
	}
	return found && now > maxUnpaid
}
