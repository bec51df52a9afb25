package implementation

import (
	"context"
	"errors"
	"strings"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/mapper"
	"ncip-portal/internal/model"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/repository/contract"
	"ncip-portal/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GenealogyRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GenealogyMapper
}

func NewGenealogyRepository(db *gorm.DB) contract.GenealogyRepository {
	return &GenealogyRepositoryImpl{
		db:     db,
		mapper: mapper.NewGenealogyMapper(),
	}
}

func (r *GenealogyRepositoryImpl) Create(ctx context.Context, record *entity.GenealogyRecord) error {
	if record.Id == uuid.Nil {
		record.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(r.mapper.ToModel(record)).Error
}

func (r *GenealogyRepositoryImpl) Update(ctx context.Context, record *entity.GenealogyRecord) error {
	return r.db.WithContext(ctx).Save(r.mapper.ToModel(record)).Error
}

func (r *GenealogyRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.GenealogyRecord, error) {
	var m model.GenealogyRecord
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *GenealogyRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GenealogyRecord, error) {
	var models []*model.GenealogyRecord
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.toEntities(models), nil
}

// escapeLike makes the user's term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

func (r *GenealogyRepositoryImpl) Search(ctx context.Context, term string, limit int) ([]*entity.GenealogyRecord, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	var models []*model.GenealogyRecord
	err := r.db.WithContext(ctx).
		Where(`LOWER(full_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR id IN (
			SELECT gr.person_id FROM genealogy_relationships gr
			JOIN genealogy_records rel ON rel.id = gr.related_person_id
			WHERE LOWER(rel.full_name) LIKE ? ESCAPE '\')`, pattern, pattern, pattern).
		Order("generation_level DESC").
		Order("last_name ASC").
		Order("full_name ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.toEntities(models), nil
}

func (r *GenealogyRepositoryImpl) CreateRelationship(ctx context.Context, rel *entity.GenealogyRelationship) error {
	if rel.Id == uuid.Nil {
		rel.Id = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(r.mapper.RelationshipToModel(rel)).Error; err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("person %s already has a recorded %s", rel.PersonId, rel.Type)
		}
		return err
	}
	return nil
}

func (r *GenealogyRepositoryImpl) FindRelationships(ctx context.Context, personIDs ...uuid.UUID) ([]*entity.GenealogyRelationship, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}
	var models []*model.GenealogyRelationship
	err := r.db.WithContext(ctx).
		Where("person_id IN ?", personIDs).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.GenealogyRelationship, len(models))
	for i, m := range models {
		out[i] = r.mapper.RelationshipToEntity(m)
	}
	return out, nil
}

func (r *GenealogyRepositoryImpl) Stats(ctx context.Context) (*entity.GenealogyStats, error) {
	var row struct {
		Total           int64 `gorm:"column:total"`
		Ethnicities     int64 `gorm:"column:ethnicities"`
		Verified        int64 `gorm:"column:verified"`
		Generation3     int64 `gorm:"column:generation_3"`
		Generation4     int64 `gorm:"column:generation_4"`
		Generation5     int64 `gorm:"column:generation_5"`
		Generation6Plus int64 `gorm:"column:generation_6_plus"`
	}
	err := r.db.WithContext(ctx).
		Model(&model.GenealogyRecord{}).
		Select(`COUNT(*) AS total,
			COUNT(DISTINCT NULLIF(ethnicity, '')) AS ethnicities,
			COALESCE(SUM(CASE WHEN is_verified THEN 1 ELSE 0 END), 0) AS verified,
			COALESCE(SUM(CASE WHEN generation_level = 3 THEN 1 ELSE 0 END), 0) AS generation_3,
			COALESCE(SUM(CASE WHEN generation_level = 4 THEN 1 ELSE 0 END), 0) AS generation_4,
			COALESCE(SUM(CASE WHEN generation_level = 5 THEN 1 ELSE 0 END), 0) AS generation_5,
			COALESCE(SUM(CASE WHEN generation_level >= 6 THEN 1 ELSE 0 END), 0) AS generation_6_plus`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	var breakdown []struct {
		Ethnicity string
		Count     int64
	}
	err = r.db.WithContext(ctx).
		Model(&model.GenealogyRecord{}).
		Select("ethnicity, COUNT(*) AS count").
		Where("ethnicity <> ''").
		Group("ethnicity").
		Order("count DESC").
		Order("ethnicity ASC").
		Scan(&breakdown).Error
	if err != nil {
		return nil, err
	}

	stats := &entity.GenealogyStats{
		Total:           row.Total,
		Ethnicities:     row.Ethnicities,
		Verified:        row.Verified,
		Generation3:     row.Generation3,
		Generation4:     row.Generation4,
		Generation5:     row.Generation5,
		Generation6Plus: row.Generation6Plus,
		ByEthnicity:     make([]entity.EthnicityCount, 0, len(breakdown)),
	}
	for _, b := range breakdown {
		stats.ByEthnicity = append(stats.ByEthnicity, entity.EthnicityCount{Ethnicity: b.Ethnicity, Count: b.Count})
	}
	return stats, nil
}

func (r *GenealogyRepositoryImpl) toEntities(models []*model.GenealogyRecord) []*entity.GenealogyRecord {
	out := make([]*entity.GenealogyRecord, len(models))
	for i, m := range models {
		out[i] = r.mapper.ToEntity(m)
	}
	return out
}
