package entity

import (
	"time"

	"ncip-portal/pkg/lifecycle"

	"github.com/google/uuid"
)

type Application struct {
	Id                 uuid.UUID
	UserId             uuid.UUID
	ApplicationNumber  string
	PurposeId          uuid.UUID
	PurposeName        string
	Status             lifecycle.Status
	SubmissionDeadline time.Time
	IsCancelled        bool
	CancellationReason *string
	ReviewedBy         *uuid.UUID
	ReviewNotes        *string
	CertificateNumber  *string
	FormData           map[string]interface{}
	CreatedAt          time.Time
	SubmittedAt        *time.Time
	ReviewedAt         *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	UpdatedAt          time.Time
}

// MoveTo validates and applies a status change.
func (a *Application) MoveTo(next lifecycle.Status, at time.Time) error {
	st, err := lifecycle.Transition(a.Status, next)
	if err != nil {
		return err
	}
	a.Status = st
	a.UpdatedAt = at
	return nil
}

// Cancel moves the application to cancelled and sets the flag and reason
// together.
func (a *Application) Cancel(reason string, at time.Time) error {
	if err := a.MoveTo(lifecycle.StatusCancelled, at); err != nil {
		return err
	}
	a.IsCancelled = true
	a.CancellationReason = &reason
	a.CancelledAt = &at
	return nil
}

func (a *Application) DaysRemaining(now time.Time) int {
	return lifecycle.DaysRemaining(a.SubmissionDeadline, now)
}

// SweepCandidate is an application with its ledger counts as read by the
// deadline sweeps.
type SweepCandidate struct {
	ApplicationId uuid.UUID
	Counts        lifecycle.Counts
}

type ReviewAction string

const (
	ReviewActionApprove        ReviewAction = "approve"
	ReviewActionReject         ReviewAction = "reject"
	ReviewActionRequestChanges ReviewAction = "request_changes"
)

// TargetStatus maps an admin action to the status it requests.
func (a ReviewAction) TargetStatus() (lifecycle.Status, bool) {
	switch a {
	case ReviewActionApprove:
		return lifecycle.StatusApproved, true
	case ReviewActionReject:
		return lifecycle.StatusRejected, true
	case ReviewActionRequestChanges:
		return lifecycle.StatusChangesRequested, true
	}
	return "", false
}

type ReviewKind string

const (
	ReviewKindDocument    ReviewKind = "document_review"
	ReviewKindApplication ReviewKind = "application_review"
)

// ReviewHistory is an append-only record of admin decisions.
type ReviewHistory struct {
	Id            uuid.UUID
	ApplicationId uuid.UUID
	DocumentId    *uuid.UUID
	Action        ReviewKind
	Status        string
	Notes         *string
	ReviewedBy    uuid.UUID
	ReviewedAt    time.Time
}
