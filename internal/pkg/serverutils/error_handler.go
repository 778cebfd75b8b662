package serverutils

import (
	"errors"

	"chatshare-be/internal/pkg/apperror"
	"chatshare-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

var kindStatus = map[apperror.Kind]int{
	apperror.KindNotFound:     fiber.StatusNotFound,
	apperror.KindForbidden:    fiber.StatusForbidden,
	apperror.KindValidation:   fiber.StatusBadRequest,
	apperror.KindConflict:     fiber.StatusConflict,
	apperror.KindUnauthorized: fiber.StatusUnauthorized,
	apperror.KindLimitReached: fiber.StatusTooManyRequests,
	apperror.KindUpstream:     fiber.StatusInternalServerError,
}

// StatusFor maps an error to the HTTP status and caller-facing message.
func StatusFor(err error) (int, string) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		// Only Message reaches the caller; the wrapped cause is logged.
		if code, ok := kindStatus[appErr.Kind]; ok {
			return code, appErr.Message
		}
		return fiber.StatusInternalServerError, "Internal server error"
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, "Internal server error"
}

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON error envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := StatusFor(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": code,
				"error":  err,
			})
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
