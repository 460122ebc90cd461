// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	authService "edumark_backend/internals/features/users/auth/service"
)

// Authenticator resolves a raw access token into the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*authService.Principal, error)
}

// AuthMiddleware rejects requests without a valid token and live session.
func AuthMiddleware(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		p, err := a.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			log.Printf("[ERROR] auth %s %s: %v", c.Method(), c.Path(), err)
			return err
		}

		storePrincipal(c, p)
		return c.Next()
	}
}
