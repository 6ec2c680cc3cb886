package serverutils

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimiter keeps a token bucket per authenticated user. Buckets are held
// for the process lifetime; the map stays small because keys are user ids.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *RateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

// Middleware rejects requests above the per-user rate with 429. Falls back to
// the client IP when the request is unauthenticated.
func (l *RateLimiter) Middleware(ctx *fiber.Ctx) error {
	key, _ := ctx.Locals("user_id").(string)
	if key == "" {
		key = ctx.IP()
	}
	if !l.limiterFor(key).Allow() {
		return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse(fiber.StatusTooManyRequests, "Too many requests"))
	}
	return ctx.Next()
}
