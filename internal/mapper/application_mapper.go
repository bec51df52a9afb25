package mapper

import (
	"ncip-portal/internal/entity"
	"ncip-portal/internal/model"
	"ncip-portal/pkg/lifecycle"

	"gorm.io/datatypes"
)

type ApplicationMapper struct{}

func NewApplicationMapper() *ApplicationMapper {
	return &ApplicationMapper{}
}

func (m *ApplicationMapper) ToEntity(a *model.Application) *entity.Application {
	if a == nil {
		return nil
	}
	return &entity.Application{
		Id:                 a.Id,
		UserId:             a.UserId,
		ApplicationNumber:  a.ApplicationNumber,
		PurposeId:          a.PurposeId,
		PurposeName:        a.PurposeName,
		Status:             lifecycle.Status(a.Status),
		SubmissionDeadline: a.SubmissionDeadline,
		IsCancelled:        a.IsCancelled,
		CancellationReason: a.CancellationReason,
		ReviewedBy:         a.ReviewedBy,
		ReviewNotes:        a.ReviewNotes,
		CertificateNumber:  a.CertificateNumber,
		FormData:           map[string]interface{}(a.FormData),
		CreatedAt:          a.CreatedAt,
		SubmittedAt:        a.SubmittedAt,
		ReviewedAt:         a.ReviewedAt,
		CompletedAt:        a.CompletedAt,
		CancelledAt:        a.CancelledAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func (m *ApplicationMapper) ToModel(a *entity.Application) *model.Application {
	if a == nil {
		return nil
	}
	return &model.Application{
		Id:                 a.Id,
		UserId:             a.UserId,
		ApplicationNumber:  a.ApplicationNumber,
		PurposeId:          a.PurposeId,
		PurposeName:        a.PurposeName,
		Status:             string(a.Status),
		SubmissionDeadline: a.SubmissionDeadline,
		IsCancelled:        a.IsCancelled,
		CancellationReason: a.CancellationReason,
		ReviewedBy:         a.ReviewedBy,
		ReviewNotes:        a.ReviewNotes,
		CertificateNumber:  a.CertificateNumber,
		FormData:           datatypes.JSONMap(a.FormData),
		CreatedAt:          a.CreatedAt,
		SubmittedAt:        a.SubmittedAt,
		ReviewedAt:         a.ReviewedAt,
		CompletedAt:        a.CompletedAt,
		CancelledAt:        a.CancelledAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func (m *ApplicationMapper) ToEntities(apps []*model.Application) []*entity.Application {
	out := make([]*entity.Application, len(apps))
	for i, a := range apps {
		out[i] = m.ToEntity(a)
	}
	return out
}

func (m *ApplicationMapper) ComplianceToEntity(c *model.RequirementCompliance) *entity.RequirementCompliance {
	return &entity.RequirementCompliance{
		Id:              c.Id,
		ApplicationId:   c.ApplicationId,
		RequirementId:   c.RequirementId,
		RequirementName: c.RequirementName,
		IsSubmitted:     c.IsSubmitted,
		IsMissing:       c.IsMissing,
		IsApproved:      c.IsApproved,
		Status:          entity.ComplianceStatus(c.Status),
		SubmissionDate:  c.SubmissionDate,
		ApprovalDate:    c.ApprovalDate,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *ApplicationMapper) ComplianceToModel(c *entity.RequirementCompliance) *model.RequirementCompliance {
	return &model.RequirementCompliance{
		Id:              c.Id,
		ApplicationId:   c.ApplicationId,
		RequirementId:   c.RequirementId,
		RequirementName: c.RequirementName,
		IsSubmitted:     c.IsSubmitted,
		IsMissing:       c.IsMissing,
		IsApproved:      c.IsApproved,
		Status:          string(c.Status),
		SubmissionDate:  c.SubmissionDate,
		ApprovalDate:    c.ApprovalDate,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *ApplicationMapper) ReviewToModel(r *entity.ReviewHistory) *model.ReviewHistory {
	return &model.ReviewHistory{
		Id:            r.Id,
		ApplicationId: r.ApplicationId,
		DocumentId:    r.DocumentId,
		Action:        string(r.Action),
		Status:        r.Status,
		Notes:         r.Notes,
		ReviewedBy:    r.ReviewedBy,
		ReviewedAt:    r.ReviewedAt,
	}
}

func (m *ApplicationMapper) ReviewToEntity(r *model.ReviewHistory) *entity.ReviewHistory {
	return &entity.ReviewHistory{
		Id:            r.Id,
		ApplicationId: r.ApplicationId,
		DocumentId:    r.DocumentId,
		Action:        entity.ReviewKind(r.Action),
		Status:        r.Status,
		Notes:         r.Notes,
		ReviewedBy:    r.ReviewedBy,
		ReviewedAt:    r.ReviewedAt,
	}
}
