package mapper

import (
	"sort"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/model"

	"gorm.io/datatypes"
)

type PurposeMapper struct{}

func NewPurposeMapper() *PurposeMapper {
	return &PurposeMapper{}
}

func (m *PurposeMapper) ToEntity(p *model.Purpose) *entity.Purpose {
	if p == nil {
		return nil
	}
	reqs := make([]entity.Requirement, 0, len(p.Requirements))
	for i := range p.Requirements {
		reqs = append(reqs, *m.RequirementToEntity(&p.Requirements[i]))
	}
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].SortOrder < reqs[j].SortOrder })

	return &entity.Purpose{
		Id:           p.Id,
		Name:         p.Name,
		Code:         p.Code,
		Description:  p.Description,
		DeadlineDays: p.DeadlineDays,
		IsActive:     p.IsActive,
		Requirements: reqs,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToModel maps the purpose row only; requirements are written separately.
func (m *PurposeMapper) ToModel(p *entity.Purpose) *model.Purpose {
	if p == nil {
		return nil
	}
	return &model.Purpose{
		Id:           p.Id,
		Name:         p.Name,
		Code:         p.Code,
		Description:  p.Description,
		DeadlineDays: p.DeadlineDays,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (m *PurposeMapper) RequirementToEntity(r *model.Requirement) *entity.Requirement {
	return &entity.Requirement{
		Id:           r.Id,
		PurposeId:    r.PurposeId,
		Name:         r.Name,
		Description:  r.Description,
		IsMandatory:  r.IsMandatory,
		AllowedTypes: []string(r.AllowedTypes),
		MaxSizeMB:    r.MaxSizeMB,
		SortOrder:    r.SortOrder,
		IsActive:     r.IsActive,
	}
}

func (m *PurposeMapper) RequirementToModel(r *entity.Requirement) *model.Requirement {
	return &model.Requirement{
		Id:           r.Id,
		PurposeId:    r.PurposeId,
		Name:         r.Name,
		Description:  r.Description,
		IsMandatory:  r.IsMandatory,
		AllowedTypes: datatypes.JSONSlice[string](r.AllowedTypes),
		MaxSizeMB:    r.MaxSizeMB,
		SortOrder:    r.SortOrder,
		IsActive:     r.IsActive,
	}
}
