package service

import (
	"time"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/pkg/lifecycle"
)

func toApplicationResponse(a *entity.Application, now time.Time) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		Id:                 a.Id,
		UserId:             a.UserId,
		ApplicationNumber:  a.ApplicationNumber,
		PurposeId:          a.PurposeId,
		PurposeName:        a.PurposeName,
		Status:             string(a.Status),
		SubmissionDeadline: a.SubmissionDeadline.Format("2006-01-02"),
		DaysRemaining:      a.DaysRemaining(now),
		IsCancelled:        a.IsCancelled,
		CancellationReason: a.CancellationReason,
		ReviewNotes:        a.ReviewNotes,
		CertificateNumber:  a.CertificateNumber,
		FormData:           a.FormData,
		CreatedAt:          a.CreatedAt,
		SubmittedAt:        a.SubmittedAt,
		ReviewedAt:         a.ReviewedAt,
		CompletedAt:        a.CompletedAt,
		CancelledAt:        a.CancelledAt,
	}
}

func toComplianceResponses(entries []*entity.RequirementCompliance) []dto.ComplianceResponse {
	out := make([]dto.ComplianceResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ComplianceResponse{
			RequirementId:   e.RequirementId,
			RequirementName: e.RequirementName,
			Status:          string(e.Status),
			IsSubmitted:     e.IsSubmitted,
			IsMissing:       e.IsMissing,
			IsApproved:      e.IsApproved,
			SubmissionDate:  e.SubmissionDate,
			ApprovalDate:    e.ApprovalDate,
		})
	}
	return out
}

func toSummary(c lifecycle.Counts) dto.ComplianceSummary {
	return dto.ComplianceSummary{
		Total:     c.Total,
		Submitted: c.Submitted,
		Approved:  c.Approved,
		Rejected:  c.Rejected,
		Missing:   c.Missing,
	}
}

func toDocumentResponse(d *entity.UploadedDocument) dto.DocumentResponse {
	return dto.DocumentResponse{
		Id:               d.Id,
		ApplicationId:    d.ApplicationId,
		RequirementId:    d.RequirementId,
		OriginalFilename: d.OriginalFilename,
		FileSize:         d.FileSize,
		MimeType:         d.MimeType,
		Checksum:         d.Checksum,
		UploadStatus:     string(d.UploadStatus),
		ReviewStatus:     string(d.ReviewStatus),
		ReviewNotes:      d.ReviewNotes,
		UploadedAt:       d.UploadedAt,
		ReviewedAt:       d.ReviewedAt,
	}
}

func toReviewHistoryResponses(reviews []*entity.ReviewHistory) []dto.ReviewHistoryResponse {
	out := make([]dto.ReviewHistoryResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, dto.ReviewHistoryResponse{
			Action:     string(r.Action),
			Status:     r.Status,
			DocumentId: r.DocumentId,
			Notes:      r.Notes,
			ReviewedBy: r.ReviewedBy,
			ReviewedAt: r.ReviewedAt,
		})
	}
	return out
}

func statusChanged(a *entity.Application, from lifecycle.Status, at time.Time) dto.StatusChangedMessage {
	return dto.StatusChangedMessage{
		ApplicationId:     a.Id,
		UserId:            a.UserId,
		ApplicationNumber: a.ApplicationNumber,
		PurposeName:       a.PurposeName,
		From:              string(from),
		To:                string(a.Status),
		OccurredAt:        at,
	}
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
