package contract

import (
	"context"

	"ncip-portal/internal/entity"

	"github.com/google/uuid"
)

type ComplianceRepository interface {
	CreateBatch(ctx context.Context, entries []*entity.RequirementCompliance) error
	// FindOne returns nil, nil when the application has no entry for the
	// requirement.
	FindOne(ctx context.Context, applicationID, requirementID uuid.UUID) (*entity.RequirementCompliance, error)
	FindByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.RequirementCompliance, error)
	Save(ctx context.Context, entry *entity.RequirementCompliance) error
}
