package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateApplicationRequest struct {
	PurposeId uuid.UUID              `json:"purpose_id" validate:"required"`
	FormData  map[string]interface{} `json:"form_data"`
}

type CancelApplicationRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

type ApplicationResponse struct {
	Id                 uuid.UUID              `json:"id"`
	UserId             uuid.UUID              `json:"user_id"`
	ApplicationNumber  string                 `json:"application_number"`
	PurposeId          uuid.UUID              `json:"purpose_id"`
	PurposeName        string                 `json:"purpose_name"`
	Status             string                 `json:"status"`
	SubmissionDeadline string                 `json:"submission_deadline"`
	DaysRemaining      int                    `json:"days_remaining"`
	IsCancelled        bool                   `json:"is_cancelled"`
	CancellationReason *string                `json:"cancellation_reason,omitempty"`
	ReviewNotes        *string                `json:"review_notes,omitempty"`
	CertificateNumber  *string                `json:"certificate_number,omitempty"`
	FormData           map[string]interface{} `json:"form_data,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	SubmittedAt        *time.Time             `json:"submitted_at,omitempty"`
	ReviewedAt         *time.Time             `json:"reviewed_at,omitempty"`
	CompletedAt        *time.Time             `json:"completed_at,omitempty"`
	CancelledAt        *time.Time             `json:"cancelled_at,omitempty"`
}

type ComplianceResponse struct {
	RequirementId   uuid.UUID  `json:"requirement_id"`
	RequirementName string     `json:"requirement_name"`
	Status          string     `json:"status"`
	IsSubmitted     bool       `json:"is_submitted"`
	IsMissing       bool       `json:"is_missing"`
	IsApproved      bool       `json:"is_approved"`
	SubmissionDate  *time.Time `json:"submission_date,omitempty"`
	ApprovalDate    *time.Time `json:"approval_date,omitempty"`
}

type ComplianceSummary struct {
	Total     int `json:"total"`
	Submitted int `json:"submitted"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Missing   int `json:"missing"`
}

type ReviewHistoryResponse struct {
	Action     string     `json:"action"`
	Status     string     `json:"status"`
	DocumentId *uuid.UUID `json:"document_id,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	ReviewedBy uuid.UUID  `json:"reviewed_by"`
	ReviewedAt time.Time  `json:"reviewed_at"`
}

type ApplicationDetailResponse struct {
	ApplicationResponse
	Summary    ComplianceSummary       `json:"summary"`
	Compliance []ComplianceResponse    `json:"compliance"`
	Documents  []DocumentResponse      `json:"documents"`
	History    []ReviewHistoryResponse `json:"history,omitempty"`
}

type ApplicationListQuery struct {
	Status    string `query:"status"`
	PurposeId string `query:"purpose_id" validate:"omitempty,uuid"`
	Search    string `query:"search"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset    int    `query:"offset" validate:"omitempty,min=0"`
}

type ApplicationListResponse struct {
	Items []ApplicationResponse `json:"items"`
	Total int64                 `json:"total"`
}

type ReviewApplicationRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject request_changes"`
	Notes  string `json:"notes" validate:"max=2000"`
}

type StatsResponse struct {
	Applications map[string]int64 `json:"applications"`
	Documents    map[string]int64 `json:"documents"`
	Total        int64            `json:"total"`
}
