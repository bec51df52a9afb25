package service

import (
	"context"
	"strings"
	"time"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/clock"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	// Register creates a pending account. An admin must approve it before
	// the first login.
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      clock.Clock
	logger     logger.ILogger
	jwtSecret  []byte
	tokenTTL   time.Duration
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, clk clock.Clock, logger logger.ILogger, jwtSecret string, tokenTTL time.Duration) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     logger,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(req.Email)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("email %s is already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err, "could not hash password")
	}
	hashStr := string(hash)

	now := s.clock.Now()
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: &hashStr,
		FullName:     strings.TrimSpace(req.FullName),
		ContactNo:    strings.TrimSpace(req.ContactNo),
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "Registration pending approval", map[string]interface{}{
		"user_id": user.Id.String(),
		"email":   user.Email,
	})

	res := toUserResponse(user)
	return &res, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: normalizeEmail(req.Email)})
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, apperror.Validation("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Validation("invalid credentials")
	}

	switch user.Status {
	case entity.UserStatusPending:
		return nil, apperror.Conflict("account is waiting for administrator approval")
	case entity.UserStatusBlocked:
		return nil, apperror.Conflict("account is blocked")
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, apperror.Internal(err, "could not sign token")
	}

	s.logger.Info("AUTH", "User logged in", map[string]interface{}{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
	})

	return &dto.LoginResponse{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		User:        toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		Id:          u.Id,
		Email:       u.Email,
		FullName:    u.FullName,
		ContactNo:   u.ContactNo,
		Address:     u.Address,
		DisplayName: u.DisplayName,
		Nickname:    u.Nickname,
		Position:    u.Position,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		Role:        string(u.Role),
		Status:      string(u.Status),
		ApprovedAt:  u.ApprovedAt,
		CreatedAt:   u.CreatedAt,
	}
}
