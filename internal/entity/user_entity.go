package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string
	ContactNo    string
	Address      string
	DisplayName  string
	Nickname     string
	Position     string
	AvatarURL    string
	Bio          string
	Role         UserRole
	Status       UserStatus
	ApprovedBy   *uuid.UUID
	ApprovedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Caller is the already-authenticated identity acting on the core. The
// admin capability is decided by the HTTP layer.
type Caller struct {
	UserID uuid.UUID
	Admin  bool
}

// CanAct reports whether the caller may act on a resource owned by ownerID.
func (c Caller) CanAct(ownerID uuid.UUID) bool {
	return c.Admin || c.UserID == ownerID
}
