package lifecycle

import (
	"fmt"
	"time"
)

// WarningBucket is the notification type raised at a fixed lead time.
type WarningBucket string

const (
	Warning7Days WarningBucket = "deadline_warning_7days"
	Warning3Days WarningBucket = "deadline_warning_3days"
	Warning1Day  WarningBucket = "deadline_warning_1day"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultLeadDays are the days_remaining values that trigger a warning.
var DefaultLeadDays = []int{7, 3, 1}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysRemaining counts calendar days from today to the deadline. Each time
// contributes its calendar date in its own location, so a deadline stored as
// UTC midnight compares by day against a local now, not by instant.
func DaysRemaining(deadline, now time.Time) int {
	y, m, d := deadline.Date()
	due := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ty, tm, td := now.Date()
	today := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(due.Sub(today).Hours() / 24)
}

// IsOverdue is true when the deadline is strictly before today.
func IsOverdue(deadline, now time.Time) bool {
	return DaysRemaining(deadline, now) < 0
}

// DaysOverdue is zero for deadlines today or later.
func DaysOverdue(deadline, now time.Time) int {
	if d := DaysRemaining(deadline, now); d < 0 {
		return -d
	}
	return 0
}

// WarningFor maps days_remaining to its bucket. ok is false when no warning
// is due.
func WarningFor(daysRemaining int, leadDays []int) (bucket WarningBucket, priority Priority, ok bool) {
	matched := false
	for _, d := range leadDays {
		if d == daysRemaining {
			matched = true
			break
		}
	}
	if !matched {
		return "", "", false
	}

	switch daysRemaining {
	case 7:
		bucket = Warning7Days
	case 3:
		bucket = Warning3Days
	case 1:
		bucket = Warning1Day
	default:
		bucket = WarningBucket(fmt.Sprintf("deadline_warning_%ddays", daysRemaining))
	}

	priority = PriorityHigh
	if daysRemaining == 1 {
		priority = PriorityUrgent
	}
	return bucket, priority, true
}

// DeadlineFrom computes a submission deadline days calendar days after now's
// calendar date. The result is midnight UTC so it survives a date column.
func DeadlineFrom(now time.Time, days int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
}
