package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string    `gorm:"type:varchar(255)"`
	FullName     string     `gorm:"type:varchar(255);not null"`
	ContactNo    string     `gorm:"type:varchar(50)"`
	Address      string     `gorm:"type:text"`
	DisplayName  string     `gorm:"type:varchar(100)"`
	Nickname     string     `gorm:"type:varchar(100)"`
	Position     string     `gorm:"type:varchar(100)"`
	AvatarURL    string     `gorm:"type:varchar(500)"`
	Bio          string     `gorm:"type:text"`
	Role         string     `gorm:"type:varchar(50);not null;default:'user'"`
	Status       string     `gorm:"type:varchar(50);not null;default:'pending';index"`
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt   *time.Time
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
