package serverutils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func rateLimitedApp(l *RateLimiter, userId string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userId != "" {
			c.Locals("user_id", userId)
		}
		return c.Next()
	})
	app.Get("/t", l.Middleware, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRateLimiterBurstThenReject(t *testing.T) {
	// A near-zero refill rate makes the test deterministic
	l := NewRateLimiter(0.0001, 2)
	app := rateLimitedApp(l, "user-a")

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/t", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/t", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimiterIsolatesUsers(t *testing.T) {
	l := NewRateLimiter(0.0001, 1)

	appA := rateLimitedApp(l, "user-a")
	appB := rateLimitedApp(l, "user-b")

	respA, err := appA.Test(httptest.NewRequest("GET", "/t", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, respA.StatusCode)

	// user-a exhausted its bucket, user-b still has one token
	respA2, err := appA.Test(httptest.NewRequest("GET", "/t", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, respA2.StatusCode)

	respB, err := appB.Test(httptest.NewRequest("GET", "/t", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, respB.StatusCode)
}
