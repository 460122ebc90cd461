// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	qrRoute "edumark_backend/internals/features/attendance/qr/route"
	authService "edumark_backend/internals/features/users/auth/service"
	routeDetails "edumark_backend/internals/route/details"
)

var startTime = time.Now()

// AppDeps holds the assembled features.
type AppDeps struct {
	Attendance *qrRoute.Deps
	Auth       *authService.AuthService
}

func SetupRoutes(app *fiber.App, d AppDeps) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app)

	if d.Auth != nil {
		log.Println("[INFO] Setting up AuthRoutes...")
		routeDetails.AuthRoutes(app, d.Auth)
	}

	log.Println("[INFO] Setting up AttendanceRoutes...")
	routeDetails.AttendanceRoutes(app, d.Attendance, d.Auth)
}
