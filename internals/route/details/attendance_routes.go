package details

import (
	"github.com/gofiber/fiber/v2"

	qrRoute "edumark_backend/internals/features/attendance/qr/route"
	authService "edumark_backend/internals/features/users/auth/service"
)

func AttendanceRoutes(app *fiber.App, deps *qrRoute.Deps, auth *authService.AuthService) {
	if auth == nil {
		qrRoute.QRRoutes(app, deps, nil)
		return
	}
	qrRoute.QRRoutes(app, deps, auth)
}
