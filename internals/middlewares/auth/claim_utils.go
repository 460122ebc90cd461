// internals/middlewares/auth/claims_utils.go
package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	authService "edumark_backend/internals/features/users/auth/service"
	helper "edumark_backend/internals/helpers"
)

var (
	errNoToken          = errors.New("unauthorized - No token provided")
	errInvalidTokenForm = errors.New("unauthorized - Invalid token format")
)

// extractBearerToken reads Authorization, falling back to the access_token cookie.
func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" {
		if cookieTok := strings.TrimSpace(c.Cookies("access_token")); cookieTok != "" {
			return cookieTok, nil
		}
		return "", errNoToken
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", errInvalidTokenForm
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errInvalidTokenForm
	}
	return tok, nil
}

func storePrincipal(c *fiber.Ctx, p *authService.Principal) {
	c.Locals(helper.LocUserID, p.UserID)
	c.Locals(helper.LocUserRole, p.Role)
	c.Locals(helper.LocSessionID, p.SessionID)
	if p.StudentID != "" {
		c.Locals(helper.LocStudentID, p.StudentID)
	}
}
