package implementation

import (
	"context"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/model"
	"ncip-portal/internal/repository/contract"
	"ncip-portal/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type cancellationRepositoryImpl struct {
	db *gorm.DB
}

// NewCancellationRepository creates a new cancellation log repository
func NewCancellationRepository(db *gorm.DB) contract.CancellationRepository {
	return &cancellationRepositoryImpl{db: db}
}

func (r *cancellationRepositoryImpl) Create(ctx context.Context, log *entity.CancellationLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	m := &model.CancellationLog{
		ID:                    log.ID,
		ApplicationID:         log.ApplicationID,
		UserID:                log.UserID,
		CancellationType:      string(log.CancellationType),
		Reason:                log.Reason,
		TotalRequirements:     log.TotalRequirements,
		SubmittedRequirements: log.SubmittedRequirements,
		ApprovedRequirements:  log.ApprovedRequirements,
		MissingRequirements:   log.MissingRequirements,
		DaysPastDeadline:      log.DaysPastDeadline,
		CreatedAt:             log.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	log.CreatedAt = m.CreatedAt
	return nil
}

func (r *cancellationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CancellationLog, error) {
	var models []*model.CancellationLog
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	logs := make([]*entity.CancellationLog, 0, len(models))
	for _, m := range models {
		logs = append(logs, r.mapToEntity(m))
	}
	return logs, nil
}

// mapToEntity converts model.CancellationLog to entity.CancellationLog
func (r *cancellationRepositoryImpl) mapToEntity(m *model.CancellationLog) *entity.CancellationLog {
	return &entity.CancellationLog{
		ID:                    m.ID,
		ApplicationID:         m.ApplicationID,
		UserID:                m.UserID,
		CancellationType:      entity.CancellationType(m.CancellationType),
		Reason:                m.Reason,
		TotalRequirements:     m.TotalRequirements,
		SubmittedRequirements: m.SubmittedRequirements,
		ApprovedRequirements:  m.ApprovedRequirements,
		MissingRequirements:   m.MissingRequirements,
		DaysPastDeadline:      m.DaysPastDeadline,
		CreatedAt:             m.CreatedAt,
	}
}
