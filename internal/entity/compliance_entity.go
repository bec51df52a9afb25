package entity

import (
	"errors"
	"time"

	"ncip-portal/pkg/lifecycle"

	"github.com/google/uuid"
)

type ComplianceStatus string

const (
	ComplianceStatusMissing  ComplianceStatus = "missing"
	ComplianceStatusPending  ComplianceStatus = "pending"
	ComplianceStatusApproved ComplianceStatus = "approved"
	ComplianceStatusRejected ComplianceStatus = "rejected"
)

// ErrNothingToReview is returned when a review targets a missing entry.
var ErrNothingToReview = errors.New("requirement has no submitted document")

// RequirementCompliance is one ledger row. Status is the source of truth;
// the flags are kept consistent with it by the mutators below.
type RequirementCompliance struct {
	Id              uuid.UUID
	ApplicationId   uuid.UUID
	RequirementId   uuid.UUID
	RequirementName string
	IsSubmitted     bool
	IsMissing       bool
	IsApproved      bool
	Status          ComplianceStatus
	SubmissionDate  *time.Time
	ApprovalDate    *time.Time
	UpdatedAt       time.Time
}

func NewMissingCompliance(appID uuid.UUID, req Requirement, at time.Time) *RequirementCompliance {
	return &RequirementCompliance{
		Id:              uuid.New(),
		ApplicationId:   appID,
		RequirementId:   req.Id,
		RequirementName: req.Name,
		IsMissing:       true,
		Status:          ComplianceStatusMissing,
		UpdatedAt:       at,
	}
}

// MarkSubmitted flips the entry to submitted and pending review. It reports
// false when the entry was already submitted and pending.
func (c *RequirementCompliance) MarkSubmitted(when time.Time) bool {
	if c.Status == ComplianceStatusPending && c.IsSubmitted {
		return false
	}
	c.Status = ComplianceStatusPending
	c.IsSubmitted = true
	c.IsMissing = false
	c.IsApproved = false
	c.SubmissionDate = &when
	c.ApprovalDate = nil
	c.UpdatedAt = when
	return true
}

// MarkReviewed records a review decision on a submitted entry.
func (c *RequirementCompliance) MarkReviewed(approved bool, when time.Time) (bool, error) {
	if c.IsMissing || !c.IsSubmitted {
		return false, ErrNothingToReview
	}
	target := ComplianceStatusRejected
	if approved {
		target = ComplianceStatusApproved
	}
	if c.Status == target {
		return false, nil
	}
	c.Status = target
	c.IsApproved = approved
	if approved {
		c.ApprovalDate = &when
	} else {
		c.ApprovalDate = nil
	}
	c.UpdatedAt = when
	return true, nil
}

// MarkMissing reverts the entry as if nothing was ever submitted.
func (c *RequirementCompliance) MarkMissing(when time.Time) bool {
	if c.Status == ComplianceStatusMissing && c.IsMissing {
		return false
	}
	c.Status = ComplianceStatusMissing
	c.IsMissing = true
	c.IsSubmitted = false
	c.IsApproved = false
	c.SubmissionDate = nil
	c.ApprovalDate = nil
	c.UpdatedAt = when
	return true
}

// CountLedger summarises ledger rows for the aggregator.
func CountLedger(entries []*RequirementCompliance) lifecycle.Counts {
	var c lifecycle.Counts
	for _, e := range entries {
		c.Total++
		switch e.Status {
		case ComplianceStatusMissing:
			c.Missing++
		case ComplianceStatusPending:
			c.Submitted++
		case ComplianceStatusApproved:
			c.Submitted++
			c.Approved++
		case ComplianceStatusRejected:
			c.Submitted++
			c.Rejected++
		}
	}
	return c
}
