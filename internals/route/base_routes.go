package routes

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	database "edumark_backend/internals/databases"
)

func BaseRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("EduMark attendance API is running")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "disabled"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if database.DB != nil {
			dbStatus = "Connected"
			if err := database.Ping(); err != nil {
				dbStatus = "Database connection error"
				serverStatus = "DOWN"
				httpStatus = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}
