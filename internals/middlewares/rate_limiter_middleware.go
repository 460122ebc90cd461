package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "edumark_backend/internals/helpers"
)

func newLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonFail(c, fiber.StatusTooManyRequests, "", message)
		},
	})
}

// Global limiter for every endpoint
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(100, time.Minute, "Too many requests. Please try again later.")
}

func LoginRateLimiter() fiber.Handler {
	return newLimiter(5, time.Minute, "Too many login attempts. Please wait a moment.")
}

// QRValidateRateLimiter caps scan attempts per client; a class scans within one window.
func QRValidateRateLimiter() fiber.Handler {
	return newLimiter(20, 30*time.Second, "Too many scan attempts. Please wait for the next QR code.")
}
