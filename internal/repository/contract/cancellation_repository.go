package contract

import (
	"context"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/repository/specification"
)

// CancellationRepository is append-only: there is no update or delete.
type CancellationRepository interface {
	Create(ctx context.Context, log *entity.CancellationLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CancellationLog, error)
}
