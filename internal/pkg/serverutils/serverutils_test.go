package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID uuid.UUID, role entity.UserRole, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"role":    string(role),
		"exp":     exp.Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func decode(t *testing.T, resp *http.Response) Response[map[string]interface{}] {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out Response[map[string]interface{}]
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestErrorHandlerMapsKinds(t *testing.T) {
	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{apperror.NotFound("application x not found"), 404, "application x not found"},
		{apperror.Conflict("already cancelled"), 409, "already cancelled"},
		{apperror.Validation("file is empty"), 400, "file is empty"},
		{apperror.IO(errors.New("disk full"), "could not store file"), 502, "could not store file"},
		{errors.New("pq: connection reset"), 500, "internal error"},
		{fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), 405, "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(nil)})
			app.Get("/", func(ctx *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			body := decode(t, resp)
			assert.False(t, body.Success)
			assert.Equal(t, tt.msg, body.Message)
		})
	}
}

func TestJwtMiddlewareAndRoles(t *testing.T) {
	userID := uuid.New()

	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(nil)})
	api := app.Group("/api", JwtMiddleware(testSecret))
	api.Get("/me", func(ctx *fiber.Ctx) error {
		caller := CallerFromCtx(ctx)
		return ctx.JSON(SuccessResponse("me", map[string]interface{}{
			"user_id": caller.UserID.String(),
			"admin":   caller.Admin,
		}))
	})
	api.Get("/admin", RequireRole(entity.UserRoleAdmin), func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse[any]("ok", nil))
	})

	do := func(path, token string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, 401, do("/api/me", "").StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		tok := signToken(t, userID, entity.UserRoleUser, time.Now().Add(-time.Hour))
		assert.Equal(t, 401, do("/api/me", tok).StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": userID.String(),
			"exp":     time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("other"))
		assert.Equal(t, 401, do("/api/me", tok).StatusCode)
	})

	t.Run("caller is built from claims", func(t *testing.T) {
		tok := signToken(t, userID, entity.UserRoleUser, time.Now().Add(time.Hour))
		resp := do("/api/me", tok)
		require.Equal(t, 200, resp.StatusCode)

		body := decode(t, resp)
		assert.Equal(t, userID.String(), body.Data["user_id"])
		assert.Equal(t, false, body.Data["admin"])
	})

	t.Run("applicant is forbidden from admin routes", func(t *testing.T) {
		tok := signToken(t, userID, entity.UserRoleUser, time.Now().Add(time.Hour))
		assert.Equal(t, 403, do("/api/admin", tok).StatusCode)
	})

	t.Run("admin passes", func(t *testing.T) {
		tok := signToken(t, userID, entity.UserRoleAdmin, time.Now().Add(time.Hour))
		assert.Equal(t, 200, do("/api/admin", tok).StatusCode)
	})
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Email string `json:"email" validate:"required,email"`
		Kind  string `json:"kind" validate:"omitempty,oneof=a b"`
	}

	assert.NoError(t, ValidateRequest(req{Email: "a@b.ph"}))

	err := ValidateRequest(req{Kind: "c"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, err.Error(), "Email is required")
	assert.Contains(t, err.Error(), "Kind must be one of [a b]")
}
