package serverutils

import (
	"errors"

	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindIO:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// NewErrorHandler is installed as fiber.Config.ErrorHandler. Application
// errors keep their message; anything unclassified becomes a generic 500
// and is logged with the real cause.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		code := statusFor(apperror.KindOf(err))
		if code >= fiber.StatusInternalServerError && log != nil {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": code,
				"error":  err.Error(),
			})
		}
		return ctx.Status(code).JSON(ErrorResponse(code, apperror.MessageOf(err)))
	}
}

// ErrorHandlerMiddleware renders handler errors before outer middleware
// (tracing, CORS) sees the response.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	handle := NewErrorHandler(log)
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return handle(ctx, err)
		}
		return nil
	}
}
