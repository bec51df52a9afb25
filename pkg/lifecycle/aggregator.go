package lifecycle

// Counts is a snapshot of an application's requirement ledger.
type Counts struct {
	Total     int
	Submitted int
	Approved  int
	Rejected  int
	Missing   int
}

func (c Counts) FullyApproved() bool {
	return c.Total > 0 && c.Approved == c.Total
}

func (c Counts) FullySubmitted() bool {
	return c.Total > 0 && c.Submitted == c.Total
}

// Aggregate derives the application status from ledger counts. Precedence:
// any rejection, then full approval, then complete submission, then partial.
func Aggregate(c Counts) Status {
	switch {
	case c.Total == 0:
		return StatusSubmitted
	case c.Rejected > 0:
		return StatusDocumentsRejected
	case c.Approved == c.Total:
		return StatusApproved
	case c.Missing == 0:
		return StatusUnderReview
	default:
		return StatusUnderReview
	}
}

// Derive applies the aggregator to an application currently in status
// current. Terminal applications keep their status; changed reports whether
// a write is needed.
func Derive(current Status, c Counts) (next Status, changed bool) {
	if current.IsTerminal() {
		return current, false
	}
	next = Aggregate(c)
	if next == current {
		return current, false
	}
	if !CanTransition(current, next) {
		return current, false
	}
	return next, true
}
