package contract

import (
	"context"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/repository/specification"

	"github.com/google/uuid"
)

type GenealogyRepository interface {
	Create(ctx context.Context, record *entity.GenealogyRecord) error
	Update(ctx context.Context, record *entity.GenealogyRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenealogyRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenealogyRecord, error)
	// Search matches the term against the person's names and the names of
	// their recorded ancestors, newest generation first.
	Search(ctx context.Context, term string, limit int) ([]*entity.GenealogyRecord, error)
	// CreateRelationship returns a Conflict when the person already has a
	// relationship of the same type.
	CreateRelationship(ctx context.Context, rel *entity.GenealogyRelationship) error
	FindRelationships(ctx context.Context, personIDs ...uuid.UUID) ([]*entity.GenealogyRelationship, error)
	Stats(ctx context.Context) (*entity.GenealogyStats, error)
}
