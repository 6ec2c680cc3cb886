package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"mindmate-be/pkg/companion"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func companionErrorApp(err error) *fiber.App {
	app := fiber.New()
	app.Get("/t", func(c *fiber.Ctx) error {
		return HandleCompanionError(c, err)
	})
	return app
}

func TestCompanionErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", companion.ErrNotFound, fiber.StatusNotFound},
		{"forbidden", companion.ErrForbidden, fiber.StatusForbidden},
		{"invalid input", companion.ErrInvalidInput, fiber.StatusBadRequest},
		{"conflict", companion.ErrConflict, fiber.StatusConflict},
		{"generation failure", &companion.GenerationError{Err: errors.New("model timeout")}, fiber.StatusBadGateway},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := companionErrorApp(tc.err)
			resp, err := app.Test(httptest.NewRequest("GET", "/t", nil))
			assert.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestInsufficientCreditsCarriesBalance(t *testing.T) {
	app := companionErrorApp(&companion.InsufficientCreditsError{Balance: 0})

	resp, err := app.Test(httptest.NewRequest("GET", "/t", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusPaymentRequired, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var parsed BaseResponse[map[string]int]
	assert.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, fiber.StatusPaymentRequired, parsed.Code)
	assert.Equal(t, 0, parsed.Data["credit_balance"])
}

func TestErrorHandlerMiddlewareWrapsFiberErrors(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "no such thing")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var parsed BaseResponse[any]
	assert.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, "no such thing", parsed.Message)
}
