// Package lifecycle holds the application status machine: the closed set of
// statuses, the allowed transitions between them, the ledger-driven
// aggregator and the deadline arithmetic used by the sweeps.
package lifecycle

import "fmt"

type Status string

const (
	StatusDraft             Status = "draft"
	StatusSubmitted         Status = "submitted"
	StatusUnderReview       Status = "under_review"
	StatusDocumentsRejected Status = "documents_rejected"
	StatusChangesRequested  Status = "changes_requested"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
	StatusCancelled         Status = "cancelled"
	StatusCompleted         Status = "completed"
	StatusCertificateIssued Status = "certificate_issued"
)

var allStatuses = []Status{
	StatusDraft,
	StatusSubmitted,
	StatusUnderReview,
	StatusDocumentsRejected,
	StatusChangesRequested,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
	StatusCertificateIssued,
}

// open statuses accept ledger-driven transitions
var openStatuses = []Status{
	StatusSubmitted,
	StatusUnderReview,
	StatusDocumentsRejected,
	StatusChangesRequested,
}

// transitions lists every allowed from -> to move. Staying in the same open
// status is always allowed and handled by Transition.
var transitions = map[Status][]Status{
	StatusDraft:             {StatusSubmitted, StatusCancelled},
	StatusSubmitted:         append([]Status{StatusApproved, StatusRejected, StatusCancelled}, openStatuses...),
	StatusUnderReview:       append([]Status{StatusApproved, StatusRejected, StatusCancelled}, openStatuses...),
	StatusDocumentsRejected: append([]Status{StatusApproved, StatusRejected, StatusCancelled}, openStatuses...),
	StatusChangesRequested:  append([]Status{StatusApproved, StatusRejected, StatusCancelled}, openStatuses...),
	// admin override: request_changes may reopen an approved application
	StatusApproved:          {StatusCompleted, StatusCertificateIssued, StatusChangesRequested},
	StatusCompleted:         {StatusCertificateIssued},
	StatusRejected:          {},
	StatusCancelled:         {},
	StatusCertificateIssued: {},
}

// ParseStatus converts a stored or user supplied string into a Status.
func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// IsTerminal reports whether no further ledger-driven transition is expected.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusCancelled, StatusCompleted, StatusCertificateIssued:
		return true
	}
	return false
}

func (s Status) IsOpen() bool {
	for _, o := range openStatuses {
		if s == o {
			return true
		}
	}
	return false
}

// SweepEligible reports whether the deadline sweeps look at an application in
// this status.
func (s Status) SweepEligible() bool {
	return s == StatusSubmitted || s == StatusUnderReview
}

func (s Status) String() string {
	return string(s)
}

// CanTransition reports whether moving from -> to is allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return from.IsOpen()
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionError is returned when a move is not in the transition table.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("application status cannot change from %s to %s", e.From, e.To)
}

// Transition validates from -> to and returns the new status.
func Transition(from, to Status) (Status, error) {
	if !CanTransition(from, to) {
		return from, &TransitionError{From: from, To: to}
	}
	return to, nil
}
