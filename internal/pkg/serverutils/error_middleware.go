package serverutils

import (
	"errors"

	"virtualboard-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts application errors escaping from handlers
// into consistent HTTP responses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status, message := mapError(err)
		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}

func mapError(err error) (int, string) {
	switch {
	case apperror.IsNotFound(err):
		return fiber.StatusNotFound, err.Error()
	case apperror.IsInvalidState(err):
		return fiber.StatusBadRequest, err.Error()
	case apperror.IsEmptyTranscript(err):
		return fiber.StatusBadRequest, err.Error()
	case apperror.IsSchemaValidation(err):
		return fiber.StatusBadGateway, "AI response did not match the expected format"
	case apperror.IsProviderError(err):
		return fiber.StatusBadGateway, "AI provider is unavailable"
	}

	var rle *apperror.RateLimitError
	if errors.As(err, &rle) {
		return fiber.StatusTooManyRequests, "Rate limit exceeded. Please try again later."
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	return fiber.StatusInternalServerError, err.Error()
}
