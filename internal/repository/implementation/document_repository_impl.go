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

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.UploadedDocument) error {
	if doc.Id == uuid.Nil {
		doc.Id = uuid.New()
	}
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("a document for this requirement already exists")
		}
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) Update(ctx context.Context, doc *entity.UploadedDocument) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UploadedDocument{}).Error
}

func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UploadedDocument, error) {
	var m model.UploadedDocument
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UploadedDocument, error) {
	var models []*model.UploadedDocument
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*entity.UploadedDocument, len(models))
	for i, m := range models {
		out[i] = r.mapper.ToEntity(m)
	}
	return out, nil
}

func (r *DocumentRepositoryImpl) CountByReviewStatus(ctx context.Context) (map[entity.ReviewStatus]int64, error) {
	var rows []struct {
		ReviewStatus string
		Total        int64
	}
	err := r.db.WithContext(ctx).Model(&model.UploadedDocument{}).
		Select("review_status, COUNT(*) AS total").
		Group("review_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[entity.ReviewStatus]int64, len(rows))
	for _, row := range rows {
		out[entity.ReviewStatus(row.ReviewStatus)] = row.Total
	}
	return out, nil
}
