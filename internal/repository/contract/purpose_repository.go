package contract

import (
	"context"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/repository/specification"

	"github.com/google/uuid"
)

type PurposeRepository interface {
	// Create inserts the purpose and its requirements.
	Create(ctx context.Context, purpose *entity.Purpose) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Purpose, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Purpose, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}
