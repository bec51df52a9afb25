package mapper

import (
	"ncip-portal/internal/entity"
	"ncip-portal/internal/model"
)

type GenealogyMapper struct{}

func NewGenealogyMapper() *GenealogyMapper {
	return &GenealogyMapper{}
}

func (m *GenealogyMapper) ToEntity(r *model.GenealogyRecord) *entity.GenealogyRecord {
	if r == nil {
		return nil
	}
	return &entity.GenealogyRecord{
		Id:               r.ID,
		FullName:         r.FullName,
		FirstName:        r.FirstName,
		MiddleName:       r.MiddleName,
		LastName:         r.LastName,
		Suffix:           r.Suffix,
		BirthDate:        r.BirthDate,
		BirthPlace:       r.BirthPlace,
		Ethnicity:        r.Ethnicity,
		TribeAffiliation: r.TribeAffiliation,
		Barangay:         r.Barangay,
		City:             r.City,
		Province:         r.Province,
		CurrentAddress:   r.CurrentAddress,
		GenerationLevel:  r.GenerationLevel,
		Gender:           entity.Gender(r.Gender),
		IsLiving:         r.IsLiving,
		IsVerified:       r.IsVerified,
		VerifiedBy:       r.VerifiedBy,
		VerifiedAt:       r.VerifiedAt,
		Notes:            r.Notes,
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (m *GenealogyMapper) ToModel(r *entity.GenealogyRecord) *model.GenealogyRecord {
	return &model.GenealogyRecord{
		ID:               r.Id,
		FullName:         r.FullName,
		FirstName:        r.FirstName,
		MiddleName:       r.MiddleName,
		LastName:         r.LastName,
		Suffix:           r.Suffix,
		BirthDate:        r.BirthDate,
		BirthPlace:       r.BirthPlace,
		Ethnicity:        r.Ethnicity,
		TribeAffiliation: r.TribeAffiliation,
		Barangay:         r.Barangay,
		City:             r.City,
		Province:         r.Province,
		CurrentAddress:   r.CurrentAddress,
		GenerationLevel:  r.GenerationLevel,
		Gender:           string(r.Gender),
		IsLiving:         r.IsLiving,
		IsVerified:       r.IsVerified,
		VerifiedBy:       r.VerifiedBy,
		VerifiedAt:       r.VerifiedAt,
		Notes:            r.Notes,
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (m *GenealogyMapper) RelationshipToEntity(r *model.GenealogyRelationship) *entity.GenealogyRelationship {
	return &entity.GenealogyRelationship{
		Id:              r.ID,
		PersonId:        r.PersonID,
		RelatedPersonId: r.RelatedPersonID,
		Type:            entity.RelationshipType(r.RelationshipType),
		CreatedBy:       r.CreatedBy,
		CreatedAt:       r.CreatedAt,
	}
}

func (m *GenealogyMapper) RelationshipToModel(r *entity.GenealogyRelationship) *model.GenealogyRelationship {
	return &model.GenealogyRelationship{
		ID:               r.Id,
		PersonID:         r.PersonId,
		RelatedPersonID:  r.RelatedPersonId,
		RelationshipType: string(r.Type),
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
	}
}
