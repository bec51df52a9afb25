package model

import (
	"time"

	"github.com/google/uuid"
)

type GenealogyRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName         string    `gorm:"type:varchar(255);not null"`
	FirstName        string    `gorm:"type:varchar(100)"`
	MiddleName       string    `gorm:"type:varchar(100)"`
	LastName         string    `gorm:"type:varchar(100);index"`
	Suffix           string    `gorm:"type:varchar(20)"`
	BirthDate        *time.Time
	BirthPlace       string     `gorm:"type:varchar(255)"`
	Ethnicity        string     `gorm:"type:varchar(100);index"`
	TribeAffiliation string     `gorm:"type:varchar(100)"`
	Barangay         string     `gorm:"type:varchar(100)"`
	City             string     `gorm:"type:varchar(100)"`
	Province         string     `gorm:"type:varchar(100)"`
	CurrentAddress   string     `gorm:"type:text"`
	GenerationLevel  int        `gorm:"not null;index"`
	Gender           string     `gorm:"type:varchar(10)"`
	IsLiving         bool       `gorm:"not null"`
	IsVerified       bool       `gorm:"not null;default:false"`
	VerifiedBy       *uuid.UUID `gorm:"type:uuid"`
	VerifiedAt       *time.Time
	Notes            string    `gorm:"type:text"`
	CreatedBy        uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (GenealogyRecord) TableName() string {
	return "genealogy_records"
}

type GenealogyRelationship struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	PersonID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_genealogy_relationships_person_type,priority:1"`
	RelatedPersonID  uuid.UUID `gorm:"type:uuid;not null;index"`
	RelationshipType string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_genealogy_relationships_person_type,priority:2"`
	CreatedBy        uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (GenealogyRelationship) TableName() string {
	return "genealogy_relationships"
}
