package serverutils

import (
	"strings"

	"ncip-portal/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	localUserID = "user_id"
	localRole   = "role"
)

// JwtMiddleware verifies the bearer token and stores user_id and role in
// Locals.
func JwtMiddleware(secret string) fiber.Handler {
	key := []byte(secret)
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		token, err := jwt.Parse(authHeader[7:], func(t *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
		}
		userID, _ := claims["user_id"].(string)
		if _, err := uuid.Parse(userID); err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid claims"))
		}
		role, _ := claims["role"].(string)

		ctx.Locals(localUserID, userID)
		ctx.Locals(localRole, role)
		return ctx.Next()
	}
}

// RequireRole must run after JwtMiddleware.
func RequireRole(roles ...entity.UserRole) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		role, _ := ctx.Locals(localRole).(string)
		for _, r := range roles {
			if role == string(r) {
				return ctx.Next()
			}
		}
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "Insufficient permissions"))
	}
}

func UserIDFromCtx(ctx *fiber.Ctx) uuid.UUID {
	s, _ := ctx.Locals(localUserID).(string)
	id, _ := uuid.Parse(s)
	return id
}

// CallerFromCtx is the identity handed to the core services.
func CallerFromCtx(ctx *fiber.Ctx) entity.Caller {
	role, _ := ctx.Locals(localRole).(string)
	return entity.Caller{
		UserID: UserIDFromCtx(ctx),
		Admin:  role == string(entity.UserRoleAdmin),
	}
}
