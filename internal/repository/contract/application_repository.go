package contract

import (
	"context"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/pkg/lifecycle"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *entity.Application) error
	Update(ctx context.Context, app *entity.Application) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Application, error)
	// FindOneForUpdate reads the row under SELECT ... FOR UPDATE. Only
	// meaningful inside a transaction.
	FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Application, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Application, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountByStatus(ctx context.Context) (map[lifecycle.Status]int64, error)
	// FindSweepCandidates returns non-cancelled applications in one of the
	// given statuses that still have at least one missing requirement,
	// with their ledger counts.
	FindSweepCandidates(ctx context.Context, statuses []lifecycle.Status) ([]*entity.SweepCandidate, error)

	CreateReview(ctx context.Context, review *entity.ReviewHistory) error
	FindReviews(ctx context.Context, applicationID uuid.UUID) ([]*entity.ReviewHistory, error)
}
