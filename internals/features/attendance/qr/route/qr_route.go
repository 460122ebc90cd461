// file: internals/features/attendance/qr/route/qr_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"edumark_backend/internals/constants"
	"edumark_backend/internals/features/attendance/qr/controller"
	"edumark_backend/internals/middlewares"
	authMiddleware "edumark_backend/internals/middlewares/auth"
)

// QRRoutes mounts /api/qr and /api/attendance. auth may be nil, in which case
// the teacher-only claim listing is not mounted.
func QRRoutes(app *fiber.App, d *Deps, auth authMiddleware.Authenticator) {
	qrCtl := controller.NewQRController(d.Issuer, d.Validator)
	statsCtl := controller.NewStatsController(d.Stats, d.Ledger)

	qr := app.Group("/api/qr")
	att := app.Group("/api/attendance")
	if auth != nil {
		qr.Use(authMiddleware.SecondAuthMiddleware(auth))
		att.Use(authMiddleware.SecondAuthMiddleware(auth))
	}

	qr.Post("/generate", qrCtl.Generate)
	qr.Post("/validate", middlewares.QRValidateRateLimiter(), qrCtl.ValidateQR)
	qr.Get("/image", qrCtl.Image)

	att.Get("/stats", statsCtl.GetStats)
	if auth != nil {
		att.Get("/claims",
			authMiddleware.AuthMiddleware(auth),
			authMiddleware.OnlyRoles(constants.RoleErrorTeacher("the claim list"), constants.TeacherOnly...),
			statsCtl.ListClaims,
		)
	}
}
