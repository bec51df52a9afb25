package dto

import "github.com/google/uuid"

type RequirementRequest struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Description  string   `json:"description"`
	IsMandatory  *bool    `json:"is_mandatory"`
	AllowedTypes []string `json:"allowed_types" validate:"omitempty,dive,oneof=pdf jpg jpeg png"`
	MaxSizeMB    int      `json:"max_size_mb" validate:"omitempty,min=1,max=50"`
}

type CreatePurposeRequest struct {
	Name         string               `json:"name" validate:"required,max=255"`
	Description  string               `json:"description"`
	DeadlineDays int                  `json:"deadline_days" validate:"omitempty,min=1,max=365"`
	Requirements []RequirementRequest `json:"requirements" validate:"required,min=1,dive"`
}

type RequirementResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	IsMandatory  bool      `json:"is_mandatory"`
	AllowedTypes []string  `json:"allowed_types"`
	MaxSizeMB    int       `json:"max_size_mb"`
	SortOrder    int       `json:"sort_order"`
}

type PurposeResponse struct {
	Id           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	Code         string                `json:"code"`
	Description  string                `json:"description"`
	DeadlineDays int                   `json:"deadline_days"`
	IsActive     bool                  `json:"is_active"`
	Requirements []RequirementResponse `json:"requirements"`
}
