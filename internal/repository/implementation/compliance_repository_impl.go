package implementation

import (
	"context"
	"errors"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/mapper"
	"ncip-portal/internal/model"
	"ncip-portal/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplianceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ApplicationMapper
}

func NewComplianceRepository(db *gorm.DB) contract.ComplianceRepository {
	return &ComplianceRepositoryImpl{
		db:     db,
		mapper: mapper.NewApplicationMapper(),
	}
}

func (r *ComplianceRepositoryImpl) CreateBatch(ctx context.Context, entries []*entity.RequirementCompliance) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]*model.RequirementCompliance, len(entries))
	for i, e := range entries {
		if e.Id == uuid.Nil {
			e.Id = uuid.New()
		}
		models[i] = r.mapper.ComplianceToModel(e)
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *ComplianceRepositoryImpl) FindOne(ctx context.Context, applicationID, requirementID uuid.UUID) (*entity.RequirementCompliance, error) {
	var m model.RequirementCompliance
	err := r.db.WithContext(ctx).
		Where("application_id = ? AND requirement_id = ?", applicationID, requirementID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ComplianceToEntity(&m), nil
}

func (r *ComplianceRepositoryImpl) FindByApplication(ctx context.Context, applicationID uuid.UUID) ([]*entity.RequirementCompliance, error) {
	var models []*model.RequirementCompliance
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("requirement_name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.RequirementCompliance, len(models))
	for i, m := range models {
		out[i] = r.mapper.ComplianceToEntity(m)
	}
	return out, nil
}

// Save writes every column, including the ones the mutators clear.
func (r *ComplianceRepositoryImpl) Save(ctx context.Context, entry *entity.RequirementCompliance) error {
	m := r.mapper.ComplianceToModel(entry)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ComplianceToEntity(m)
	return nil
}
