package details

import (
	"github.com/gofiber/fiber/v2"

	authRoute "edumark_backend/internals/features/users/auth/route"
	authService "edumark_backend/internals/features/users/auth/service"
)

func AuthRoutes(app *fiber.App, auth *authService.AuthService) {
	authRoute.AuthRoutes(app, auth)
}
