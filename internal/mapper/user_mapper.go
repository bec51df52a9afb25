package mapper

import (
	"ncip-portal/internal/entity"
	"ncip-portal/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		ContactNo:    u.ContactNo,
		Address:      u.Address,
		DisplayName:  u.DisplayName,
		Nickname:     u.Nickname,
		Position:     u.Position,
		AvatarURL:    u.AvatarURL,
		Bio:          u.Bio,
		Role:         entity.UserRole(u.Role),
		Status:       entity.UserStatus(u.Status),
		ApprovedBy:   u.ApprovedBy,
		ApprovedAt:   u.ApprovedAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		ContactNo:    u.ContactNo,
		Address:      u.Address,
		DisplayName:  u.DisplayName,
		Nickname:     u.Nickname,
		Position:     u.Position,
		AvatarURL:    u.AvatarURL,
		Bio:          u.Bio,
		Role:         string(u.Role),
		Status:       string(u.Status),
		ApprovedBy:   u.ApprovedBy,
		ApprovedAt:   u.ApprovedAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}
