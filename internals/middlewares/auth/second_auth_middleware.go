package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// SecondAuthMiddleware is the optional variant: a missing or bad token
// continues as anonymous instead of failing.
func SecondAuthMiddleware(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return c.Next()
		}

		p, err := a.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			log.Printf("[INFO] optional auth ignored token: %v", err)
			return c.Next()
		}

		storePrincipal(c, p)
		return c.Next()
	}
}
