package implementation

import (
	"context"
	"errors"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/mapper"
	"ncip-portal/internal/model"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/repository/contract"
	"ncip-portal/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurposeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PurposeMapper
}

func NewPurposeRepository(db *gorm.DB) contract.PurposeRepository {
	return &PurposeRepositoryImpl{
		db:     db,
		mapper: mapper.NewPurposeMapper(),
	}
}

func (r *PurposeRepositoryImpl) Create(ctx context.Context, purpose *entity.Purpose) error {
	m := r.mapper.ToModel(purpose)
	for i := range purpose.Requirements {
		req := &purpose.Requirements[i]
		if req.Id == uuid.Nil {
			req.Id = uuid.New()
		}
		req.PurposeId = purpose.Id
		m.Requirements = append(m.Requirements, *r.mapper.RequirementToModel(req))
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("purpose %q already exists", purpose.Name)
		}
		return err
	}
	*purpose = *r.mapper.ToEntity(m)
	return nil
}

func (r *PurposeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Purpose, error) {
	var m model.Purpose
	query := applySpecifications(r.db.WithContext(ctx).Preload("Requirements"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PurposeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Purpose, error) {
	var models []*model.Purpose
	query := applySpecifications(r.db.WithContext(ctx).Preload("Requirements"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	purposes := make([]*entity.Purpose, len(models))
	for i, m := range models {
		purposes[i] = r.mapper.ToEntity(m)
	}
	return purposes, nil
}

func (r *PurposeRepositoryImpl) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Purpose{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("purpose %s not found", id)
	}
	return nil
}
