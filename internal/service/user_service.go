package service

import (
	"context"
	"strings"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/clock"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/internal/repository/unitofwork"
	"ncip-portal/pkg/lifecycle"
	"ncip-portal/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	notificationAccountApproved = "account_approved"
	notificationAccountCreated  = "account_created"

	tempPasswordLength = 12
	minFullNameLen     = 3
)

type IUserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)

	// Admin
	List(ctx context.Context, q dto.UserListQuery) (*dto.UserListResponse, error)
	// CreateByAdmin creates an active account. Without a password in the
	// request a temporary one is generated and returned once.
	CreateByAdmin(ctx context.Context, adminID uuid.UUID, req *dto.AdminCreateUserRequest) (*dto.AdminCreateUserResponse, error)
	Approve(ctx context.Context, adminID, userID uuid.UUID) (*dto.UserResponse, error)
	Block(ctx context.Context, adminID, userID uuid.UUID) (*dto.UserResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      clock.Clock
	logger     logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, clk clock.Clock, logger logger.ILogger) IUserService {
	return &userService{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     logger,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.uowFactory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user %s not found", userID)
	}
	res := toUserResponse(user)
	return &res, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	repo := s.uowFactory.NewUnitOfWork(ctx).UserRepository()
	user, err := repo.FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user %s not found", userID)
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if len(name) < minFullNameLen {
			return nil, apperror.Validation("full name must be at least %d characters", minFullNameLen)
		}
		user.FullName = name
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&user.ContactNo, req.ContactNo)
	set(&user.Address, req.Address)
	set(&user.DisplayName, req.DisplayName)
	set(&user.Nickname, req.Nickname)
	set(&user.Position, req.Position)
	set(&user.AvatarURL, req.AvatarURL)
	set(&user.Bio, req.Bio)
	user.UpdatedAt = s.clock.Now()

	if err := repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("USER", "Profile updated", map[string]interface{}{
		"user_id": user.Id.String(),
	})
	res := toUserResponse(user)
	return &res, nil
}

func (s *userService) List(ctx context.Context, q dto.UserListQuery) (*dto.UserListResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var filters []specification.Specification
	if q.Status != "" {
		filters = append(filters, specification.ByUserStatus{Status: q.Status})
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).UserRepository()
	total, err := repo.Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	users, err := repo.FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: q.Offset},
	)...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Total: total}, nil
}

// Approve activates a pending or blocked account and queues a notice to
// the user. Approving an active account changes nothing.
func (s *userService) Approve(ctx context.Context, adminID, userID uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user %s not found", userID)
	}
	if user.Status == entity.UserStatusActive {
		res := toUserResponse(user)
		return &res, nil
	}

	now := s.clock.Now()
	user.Status = entity.UserStatusActive
	user.ApprovedBy = &adminID
	user.ApprovedAt = &now
	user.UpdatedAt = now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, err
	}

	err = uow.NotificationRepository().Enqueue(ctx, &entity.NotificationQueueEntry{
		UserId:    user.Id,
		Type:      notificationAccountApproved,
		Title:     "Account Approved",
		Message:   "Your NCIP Portal account has been approved. You can now log in and submit applications.",
		Priority:  lifecycle.PriorityNormal,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("USER", "Account approved", map[string]interface{}{
		"user_id":  user.Id.String(),
		"admin_id": adminID.String(),
	})
	res := toUserResponse(user)
	return &res, nil
}

func (s *userService) CreateByAdmin(ctx context.Context, adminID uuid.UUID, req *dto.AdminCreateUserRequest) (*dto.AdminCreateUserResponse, error) {
	email := normalizeEmail(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if len(fullName) < minFullNameLen {
		return nil, apperror.Validation("full name must be at least %d characters", minFullNameLen)
	}
	role := entity.UserRole(req.Role)
	if role != entity.UserRoleUser && role != entity.UserRoleAdmin {
		return nil, apperror.Validation("role must be user or admin")
	}

	password, temporary := req.Password, ""
	if password == "" {
		generated, err := utils.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return nil, apperror.Internal(err, "could not generate a password")
		}
		password, temporary = generated, generated
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err, "could not hash password")
	}
	hashStr := string(hash)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("email %s is already registered", email)
	}

	now := s.clock.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: &hashStr,
		FullName:     fullName,
		ContactNo:    strings.TrimSpace(req.ContactNo),
		Role:         role,
		Status:       entity.UserStatusActive,
		ApprovedBy:   &adminID,
		ApprovedAt:   &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	err = uow.NotificationRepository().Enqueue(ctx, &entity.NotificationQueueEntry{
		UserId:    user.Id,
		Type:      notificationAccountCreated,
		Title:     "Account Created",
		Message:   "An administrator created your NCIP Portal account. Sign in with the password you were given.",
		Priority:  lifecycle.PriorityNormal,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("USER", "Account created by admin", map[string]interface{}{
		"user_id":  user.Id.String(),
		"admin_id": adminID.String(),
		"role":     string(role),
	})
	return &dto.AdminCreateUserResponse{
		User:              toUserResponse(user),
		TemporaryPassword: temporary,
	}, nil
}

func (s *userService) Block(ctx context.Context, adminID, userID uuid.UUID) (*dto.UserResponse, error) {
	if adminID == userID {
		return nil, apperror.Validation("administrators cannot block themselves")
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).UserRepository()
	user, err := repo.FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user %s not found", userID)
	}

	user.Status = entity.UserStatusBlocked
	user.UpdatedAt = s.clock.Now()
	if err := repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Warn("USER", "Account blocked", map[string]interface{}{
		"user_id":  user.Id.String(),
		"admin_id": adminID.String(),
	})
	res := toUserResponse(user)
	return &res, nil
}
