// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	controller "edumark_backend/internals/features/users/auth/controller"
	"edumark_backend/internals/features/users/auth/service"
	rateLimiter "edumark_backend/internals/middlewares"
	authMiddleware "edumark_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /api/auth.
func AuthRoutes(app *fiber.App, auth *service.AuthService) {
	ctl := controller.NewAuthController(auth)

	baseAuth := app.Group("/api/auth")

	// public
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(), ctl.LoginGoogle)

	// protected
	protected := baseAuth.Group("", authMiddleware.AuthMiddleware(auth))
	protected.Post("/logout", ctl.Logout)
	protected.Get("/me", ctl.Me)
}
