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
	"ncip-portal/pkg/lifecycle"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ApplicationMapper
}

func NewApplicationRepository(db *gorm.DB) contract.ApplicationRepository {
	return &ApplicationRepositoryImpl{
		db:     db,
		mapper: mapper.NewApplicationMapper(),
	}
}

func (r *ApplicationRepositoryImpl) Create(ctx context.Context, app *entity.Application) error {
	m := r.mapper.ToModel(app)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("application number %s already exists", app.ApplicationNumber)
		}
		return err
	}
	*app = *r.mapper.ToEntity(m)
	return nil
}

func (r *ApplicationRepositoryImpl) Update(ctx context.Context, app *entity.Application) error {
	m := r.mapper.ToModel(app)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("certificate number is already in use")
		}
		return err
	}
	*app = *r.mapper.ToEntity(m)
	return nil
}

func (r *ApplicationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Application, error) {
	var m model.Application
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ApplicationRepositoryImpl) FindOneForUpdate(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	var m model.Application
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ApplicationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Application, error) {
	var models []*model.Application
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ApplicationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Application{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ApplicationRepositoryImpl) CountByStatus(ctx context.Context) (map[lifecycle.Status]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Application{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[lifecycle.Status]int64, len(rows))
	for _, row := range rows {
		out[lifecycle.Status(row.Status)] = row.Total
	}
	return out, nil
}

const sweepCandidatesQuery = `
SELECT a.id AS application_id,
	COUNT(rc.id) AS total,
	SUM(CASE WHEN rc.status IN ('pending', 'approved', 'rejected') THEN 1 ELSE 0 END) AS submitted,
	SUM(CASE WHEN rc.status = 'approved' THEN 1 ELSE 0 END) AS approved,
	SUM(CASE WHEN rc.status = 'rejected' THEN 1 ELSE 0 END) AS rejected,
	SUM(CASE WHEN rc.status = 'missing' THEN 1 ELSE 0 END) AS missing
FROM applications a
JOIN requirement_compliance rc ON rc.application_id = a.id
WHERE a.status IN ? AND a.is_cancelled = ?
GROUP BY a.id, a.submission_deadline
HAVING SUM(CASE WHEN rc.status = 'missing' THEN 1 ELSE 0 END) > 0
ORDER BY a.submission_deadline ASC`

func (r *ApplicationRepositoryImpl) FindSweepCandidates(ctx context.Context, statuses []lifecycle.Status) ([]*entity.SweepCandidate, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	var rows []struct {
		ApplicationId uuid.UUID
		Total         int
		Submitted     int
		Approved      int
		Rejected      int
		Missing       int
	}
	if err := r.db.WithContext(ctx).Raw(sweepCandidatesQuery, names, false).Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*entity.SweepCandidate, len(rows))
	for i, row := range rows {
		out[i] = &entity.SweepCandidate{
			ApplicationId: row.ApplicationId,
			Counts: lifecycle.Counts{
				Total:     row.Total,
				Submitted: row.Submitted,
				Approved:  row.Approved,
				Rejected:  row.Rejected,
				Missing:   row.Missing,
			},
		}
	}
	return out, nil
}

func (r *ApplicationRepositoryImpl) CreateReview(ctx context.Context, review *entity.ReviewHistory) error {
	if review.Id == uuid.Nil {
		review.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(r.mapper.ReviewToModel(review)).Error
}

func (r *ApplicationRepositoryImpl) FindReviews(ctx context.Context, applicationID uuid.UUID) ([]*entity.ReviewHistory, error) {
	var models []*model.ReviewHistory
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("reviewed_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.ReviewHistory, len(models))
	for i, m := range models {
		out[i] = r.mapper.ReviewToEntity(m)
	}
	return out, nil
}
