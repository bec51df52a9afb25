package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByApplicationID struct {
	ApplicationID uuid.UUID
}

func (s ByApplicationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("application_id = ?", s.ApplicationID)
}

type ByRequirementID struct {
	RequirementID uuid.UUID
}

func (s ByRequirementID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("requirement_id = ?", s.RequirementID)
}

type ByPurposeID struct {
	PurposeID uuid.UUID
}

func (s ByPurposeID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("purpose_id = ?", s.PurposeID)
}

type ByStatuses struct {
	Statuses []string
}

func (s ByStatuses) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", s.Statuses)
}

type NotCancelled struct{}

func (s NotCancelled) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_cancelled = ?", false)
}

// ApplicationSearch matches the application number or the purpose name.
type ApplicationSearch struct {
	Term string
}

func (s ApplicationSearch) Apply(db *gorm.DB) *gorm.DB {
	term := strings.TrimSpace(s.Term)
	if term == "" {
		return db
	}
	like := "%" + strings.ToLower(term) + "%"
	return db.Where("LOWER(application_number) LIKE ? OR LOWER(purpose_name) LIKE ?", like, like)
}

type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}
