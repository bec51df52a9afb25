package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Purpose struct {
	Id           uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Name         string        `gorm:"type:varchar(255);not null;uniqueIndex"`
	Code         string        `gorm:"type:varchar(20);not null"`
	Description  string        `gorm:"type:text"`
	DeadlineDays int           `gorm:"not null;default:30"`
	IsActive     bool          `gorm:"not null;default:true;index"`
	Requirements []Requirement `gorm:"foreignKey:PurposeId"`
	CreatedAt    time.Time     `gorm:"autoCreateTime"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime"`
}

func (Purpose) TableName() string {
	return "purposes"
}

type Requirement struct {
	Id           uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	PurposeId    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Name         string                      `gorm:"type:varchar(255);not null"`
	Description  string                      `gorm:"type:text"`
	IsMandatory  bool                        `gorm:"not null"`
	AllowedTypes datatypes.JSONSlice[string] `gorm:"type:json"`
	MaxSizeMB    int                         `gorm:"not null;default:5"`
	SortOrder    int                         `gorm:"not null;default:0"`
	IsActive     bool                        `gorm:"not null;default:true"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime"`
}

func (Requirement) TableName() string {
	return "requirements"
}
