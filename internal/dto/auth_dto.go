package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FullName  string `json:"full_name" validate:"required,min=3"`
	ContactNo string `json:"contact_no" validate:"omitempty,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	Id          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	ContactNo   string     `json:"contact_no,omitempty"`
	Address     string     `json:"address,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Nickname    string     `json:"nickname,omitempty"`
	Position    string     `json:"position,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,max=255"`
	ContactNo   *string `json:"contact_no" validate:"omitempty,max=50"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	Nickname    *string `json:"nickname" validate:"omitempty,max=100"`
	Position    *string `json:"position" validate:"omitempty,max=100"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url,max=500"`
	Bio         *string `json:"bio" validate:"omitempty,max=2000"`
}

type AdminCreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FullName  string `json:"full_name" validate:"required,min=3"`
	ContactNo string `json:"contact_no" validate:"omitempty,max=50"`
	Role      string `json:"role" validate:"required,oneof=user admin"`
	// Password is optional; a temporary one is generated when empty.
	Password string `json:"password" validate:"omitempty,min=8"`
}

type AdminCreateUserResponse struct {
	User              UserResponse `json:"user"`
	TemporaryPassword string       `json:"temporary_password,omitempty"`
}

type UserListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending active blocked"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int64          `json:"total"`
}
