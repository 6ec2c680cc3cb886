package serverutils

import (
	"errors"

	"mindmate-be/pkg/companion"

	"github.com/gofiber/fiber/v2"
)

// HandleCompanionError translates companion error kinds into HTTP responses.
// An insufficient-credits rejection carries the current balance so the client
// can render the paywall state without a second round trip.
func HandleCompanionError(ctx *fiber.Ctx, err error) error {
	var insufficient *companion.InsufficientCreditsError
	if errors.As(err, &insufficient) {
		resp := ErrorResponse(fiber.StatusPaymentRequired, "Insufficient credits")
		return ctx.Status(fiber.StatusPaymentRequired).JSON(BaseResponse[map[string]int]{
			Code:    resp.Code,
			Message: resp.Message,
			Data:    map[string]int{"credit_balance": insufficient.Balance},
		})
	}

	var generation *companion.GenerationError
	if errors.As(err, &generation) {
		return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(fiber.StatusBadGateway, "The companion could not generate a reply. Your credit was spent; please try again."))
	}

	switch {
	case errors.Is(err, companion.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(fiber.StatusNotFound, "Not found"))
	case errors.Is(err, companion.ErrForbidden):
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "Account is banned"))
	case errors.Is(err, companion.ErrInvalidInput):
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, "Invalid input"))
	case errors.Is(err, companion.ErrConflict):
		return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(fiber.StatusConflict, "Conflicting update, please retry"))
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}

// ErrorHandlerMiddleware converts errors escaping the handler chain into the
// shared envelope instead of Fiber's default plain-text body.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
