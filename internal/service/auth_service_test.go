package service

import (
	"context"
	"testing"
	"time"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/clock"
	"ncip-portal/internal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authTestSecret = "auth-test-secret"

func newAuthServices(h *harness) (IAuthService, IUserService) {
	// Tokens are verified against the wall clock.
	clk := clock.NewFixed(time.Now().UTC())
	return NewAuthService(h.uow, clk, logger.NewNop(), authTestSecret, time.Hour),
		NewUserService(h.uow, clk, logger.NewNop())
}

func register(t *testing.T, auth IAuthService, email string) *dto.UserResponse {
	t.Helper()
	u, err := auth.Register(context.Background(), &dto.RegisterRequest{
		Email:    email,
		Password: "s3cret-pass",
		FullName: "Lakan Dula",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterCreatesPendingAccount(t *testing.T) {
	h := newHarness(t)
	auth, _ := newAuthServices(h)

	u := register(t, auth, "  Lakan@Example.PH ")
	assert.Equal(t, "lakan@example.ph", u.Email)
	assert.Equal(t, string(entity.UserStatusPending), u.Status)
	assert.Equal(t, string(entity.UserRoleUser), u.Role)

	_, err := auth.Register(context.Background(), &dto.RegisterRequest{
		Email:    "lakan@example.ph",
		Password: "another-pass",
		FullName: "Someone Else",
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLoginRequiresApproval(t *testing.T) {
	h := newHarness(t)
	auth, users := newAuthServices(h)
	u := register(t, auth, "dayang@example.ph")
	ctx := context.Background()
	creds := &dto.LoginRequest{Email: "dayang@example.ph", Password: "s3cret-pass"}

	_, err := auth.Login(ctx, creds)
	assert.ErrorIs(t, err, apperror.ErrConflict, "pending accounts cannot log in")

	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "dayang@example.ph", Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.ph", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	approved, err := users.Approve(ctx, h.admin, u.Id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.UserStatusActive), approved.Status)
	require.NotNil(t, approved.ApprovedAt)

	res, err := auth.Login(ctx, creds)
	require.NoError(t, err)
	assert.Equal(t, u.Id, res.User.Id)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(res.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(authTestSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, u.Id.String(), claims["user_id"])
	assert.Equal(t, "user", claims["role"])

	_, err = users.Block(ctx, h.admin, u.Id)
	require.NoError(t, err)
	_, err = auth.Login(ctx, creds)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestApproveQueuesNoticeOnce(t *testing.T) {
	h := newHarness(t)
	auth, users := newAuthServices(h)
	u := register(t, auth, "bulan@example.ph")
	ctx := context.Background()

	_, err := users.Approve(ctx, h.admin, u.Id)
	require.NoError(t, err)
	_, err = users.Approve(ctx, h.admin, u.Id)
	require.NoError(t, err)

	notes := h.notifications(u.Id)
	require.Len(t, notes, 1)
	assert.Equal(t, "account_approved", notes[0].Type)

	_, err = users.Approve(ctx, h.admin, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestBlockAndList(t *testing.T) {
	h := newHarness(t)
	_, users := newAuthServices(h)
	admin := h.createUser("admin@ncip.gov.ph", entity.UserRoleAdmin, entity.UserStatusActive)
	applicant := h.createUser("tala@example.ph", entity.UserRoleUser, entity.UserStatusActive)
	h.createUser("hiraya@example.ph", entity.UserRoleUser, entity.UserStatusPending)
	ctx := context.Background()

	_, err := users.Block(ctx, admin.Id, admin.Id)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	blocked, err := users.Block(ctx, admin.Id, applicant.Id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.UserStatusBlocked), blocked.Status)

	list, err := users.List(ctx, dto.UserListQuery{Status: "pending"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "hiraya@example.ph", list.Items[0].Email)

	all, err := users.List(ctx, dto.UserListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)

	profile, err := users.GetProfile(ctx, applicant.Id)
	require.NoError(t, err)
	assert.Equal(t, string(entity.UserStatusBlocked), profile.Status)
}

func TestCreateByAdminActivatesAccount(t *testing.T) {
	h := newHarness(t)
	auth, users := newAuthServices(h)
	ctx := context.Background()

	res, err := users.CreateByAdmin(ctx, h.admin, &dto.AdminCreateUserRequest{
		Email:    " Officer@NCIP.gov.ph ",
		FullName: "Datu Officer",
		Role:     string(entity.UserRoleAdmin),
		Password: "chosen-pass",
	})
	require.NoError(t, err)
	assert.Empty(t, res.TemporaryPassword)
	assert.Equal(t, "officer@ncip.gov.ph", res.User.Email)
	assert.Equal(t, string(entity.UserStatusActive), res.User.Status)
	assert.Equal(t, string(entity.UserRoleAdmin), res.User.Role)
	require.NotNil(t, res.User.ApprovedAt)

	login, err := auth.Login(ctx, &dto.LoginRequest{Email: "officer@ncip.gov.ph", Password: "chosen-pass"})
	require.NoError(t, err)
	assert.Equal(t, res.User.Id, login.User.Id)

	notes := h.notifications(res.User.Id)
	require.Len(t, notes, 1)
	assert.Equal(t, "account_created", notes[0].Type)
	assert.NotContains(t, notes[0].Message, "chosen-pass")

	_, err = users.CreateByAdmin(ctx, h.admin, &dto.AdminCreateUserRequest{
		Email:    "officer@ncip.gov.ph",
		FullName: "Someone Else",
		Role:     string(entity.UserRoleUser),
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateByAdminGeneratesTemporaryPassword(t *testing.T) {
	h := newHarness(t)
	auth, users := newAuthServices(h)
	ctx := context.Background()

	res, err := users.CreateByAdmin(ctx, h.admin, &dto.AdminCreateUserRequest{
		Email:    "elder@example.ph",
		FullName: "Apo Elder",
		Role:     string(entity.UserRoleUser),
	})
	require.NoError(t, err)
	require.Len(t, res.TemporaryPassword, 12)

	_, err = auth.Login(ctx, &dto.LoginRequest{Email: "elder@example.ph", Password: res.TemporaryPassword})
	assert.NoError(t, err)

	_, err = users.CreateByAdmin(ctx, h.admin, &dto.AdminCreateUserRequest{
		Email:    "blank@example.ph",
		FullName: "   ",
		Role:     string(entity.UserRoleUser),
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = users.CreateByAdmin(ctx, h.admin, &dto.AdminCreateUserRequest{
		Email:    "root@example.ph",
		FullName: "Root User",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateProfileChangesOnlyGivenFields(t *testing.T) {
	h := newHarness(t)
	_, users := newAuthServices(h)
	u := h.createUser("amihan@example.ph", entity.UserRoleUser, entity.UserStatusActive)
	ctx := context.Background()

	str := func(s string) *string { return &s }
	res, err := users.UpdateProfile(ctx, u.Id, &dto.UpdateProfileRequest{
		DisplayName: str(" Amihan "),
		Position:    str("Tribal Secretary"),
		Bio:         str("Keeper of the clan records."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Amihan", res.DisplayName)
	assert.Equal(t, "Tribal Secretary", res.Position)
	assert.Equal(t, u.FullName, res.FullName, "absent fields are untouched")

	res, err = users.UpdateProfile(ctx, u.Id, &dto.UpdateProfileRequest{FullName: str("Amihan Dalisay")})
	require.NoError(t, err)
	assert.Equal(t, "Amihan Dalisay", res.FullName)
	assert.Equal(t, "Tribal Secretary", res.Position)

	stored, err := users.GetProfile(ctx, u.Id)
	require.NoError(t, err)
	assert.Equal(t, "Amihan Dalisay", stored.FullName)
	assert.Equal(t, "Keeper of the clan records.", stored.Bio)

	_, err = users.UpdateProfile(ctx, u.Id, &dto.UpdateProfileRequest{FullName: str("  ")})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = users.UpdateProfile(ctx, uuid.New(), &dto.UpdateProfileRequest{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
