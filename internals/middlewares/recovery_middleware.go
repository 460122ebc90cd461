package middlewares

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	helper "edumark_backend/internals/helpers"
)

// RecoveryMiddleware turns panics into 500s.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
	})
}

// ErrorHandler renders any error that escapes a handler as the JSON error envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] unhandled %s %s: %v", c.Method(), c.Path(), err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
}
