package dto

import (
	"time"

	"github.com/google/uuid"
)

// GenealogyPersonRequest holds the fields shared by every way of recording
// a person.
type GenealogyPersonRequest struct {
	FullName         string `json:"full_name" validate:"required,min=2,max=255"`
	FirstName        string `json:"first_name" validate:"omitempty,max=100"`
	MiddleName       string `json:"middle_name" validate:"omitempty,max=100"`
	LastName         string `json:"last_name" validate:"omitempty,max=100"`
	Suffix           string `json:"suffix" validate:"omitempty,max=20"`
	BirthDate        string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	BirthPlace       string `json:"birth_place" validate:"omitempty,max=255"`
	Ethnicity        string `json:"ethnicity" validate:"omitempty,max=100"`
	TribeAffiliation string `json:"tribe_affiliation" validate:"omitempty,max=100"`
	Barangay         string `json:"barangay" validate:"omitempty,max=100"`
	City             string `json:"city" validate:"omitempty,max=100"`
	Province         string `json:"province" validate:"omitempty,max=100"`
	CurrentAddress   string `json:"current_address" validate:"omitempty,max=500"`
	Gender           string `json:"gender" validate:"omitempty,oneof=Male Female"`
	Notes            string `json:"notes" validate:"omitempty,max=2000"`
}

type CreateGenealogyRequest struct {
	GenealogyPersonRequest
	GenerationLevel int   `json:"generation_level" validate:"required,min=1,max=30"`
	IsLiving        *bool `json:"is_living"`

	FatherId              *uuid.UUID `json:"father_id"`
	MotherId              *uuid.UUID `json:"mother_id"`
	PaternalGrandfatherId *uuid.UUID `json:"paternal_grandfather_id"`
	PaternalGrandmotherId *uuid.UUID `json:"paternal_grandmother_id"`
	MaternalGrandfatherId *uuid.UUID `json:"maternal_grandfather_id"`
	MaternalGrandmotherId *uuid.UUID `json:"maternal_grandmother_id"`
}

type AddFamilyMemberRequest struct {
	GenealogyPersonRequest
	// Relationship is how the new person relates to the reference person.
	Relationship string `json:"relationship_to_reference" validate:"required,oneof=child parent"`
	// OtherParentId names the second parent when adding a child.
	OtherParentId *uuid.UUID `json:"other_parent_id"`
}

type GenealogySearchQuery struct {
	Term string `query:"term"`
}

type GenealogyRecordResponse struct {
	Id               uuid.UUID  `json:"id"`
	FullName         string     `json:"full_name"`
	FirstName        string     `json:"first_name,omitempty"`
	MiddleName       string     `json:"middle_name,omitempty"`
	LastName         string     `json:"last_name,omitempty"`
	Suffix           string     `json:"suffix,omitempty"`
	BirthDate        string     `json:"birth_date,omitempty"`
	BirthPlace       string     `json:"birth_place,omitempty"`
	Ethnicity        string     `json:"ethnicity,omitempty"`
	TribeAffiliation string     `json:"tribe_affiliation,omitempty"`
	Barangay         string     `json:"barangay,omitempty"`
	City             string     `json:"city,omitempty"`
	Province         string     `json:"province,omitempty"`
	CurrentAddress   string     `json:"current_address,omitempty"`
	GenerationLevel  int        `json:"generation_level"`
	Gender           string     `json:"gender,omitempty"`
	IsLiving         bool       `json:"is_living"`
	IsVerified       bool       `json:"is_verified"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	FatherName       string     `json:"father_name,omitempty"`
	MotherName       string     `json:"mother_name,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type GenealogyRelationResponse struct {
	Type   string                  `json:"relationship_type"`
	Person GenealogyRecordResponse `json:"person"`
}

type GenealogyDetailResponse struct {
	Person        GenealogyRecordResponse     `json:"person"`
	Relationships []GenealogyRelationResponse `json:"relationships"`
}

type GenealogySearchResponse struct {
	Count   int                       `json:"count"`
	Records []GenealogyRecordResponse `json:"records"`
}

type EthnicityCountResponse struct {
	Ethnicity string `json:"ethnicity"`
	Count     int64  `json:"count"`
}

type GenealogyStatsResponse struct {
	TotalRecords       int64                    `json:"total_records"`
	TotalEthnicities   int64                    `json:"total_ethnicities"`
	VerifiedRecords    int64                    `json:"verified_records"`
	Generation3        int64                    `json:"generation_3"`
	Generation4        int64                    `json:"generation_4"`
	Generation5        int64                    `json:"generation_5"`
	Generation6Plus    int64                    `json:"generation_6_plus"`
	EthnicityBreakdown []EthnicityCountResponse `json:"ethnicity_breakdown"`
}
