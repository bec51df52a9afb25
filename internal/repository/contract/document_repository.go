package contract

import (
	"context"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.UploadedDocument) error
	Update(ctx context.Context, doc *entity.UploadedDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UploadedDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UploadedDocument, error)
	CountByReviewStatus(ctx context.Context) (map[entity.ReviewStatus]int64, error)
}
