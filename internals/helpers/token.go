// helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Locals keys shared by the auth middleware and handlers.
const (
	LocUserID    = "user_id"
	LocUserRole  = "userRole"
	LocSessionID = "session_id"
	LocStudentID = "student_id"
)

// GetUserID returns 401 when the request carries no authenticated user.
func GetUserID(c *fiber.Ctx) (string, error) {
	id, _ := c.Locals(LocUserID).(string)
	if strings.TrimSpace(id) == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}

func GetUserRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocUserRole).(string)
	return role
}

// GetSessionID is the server-side login session bound to the JWT, if any.
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(LocSessionID).(string)
	return sid
}

// GetStudentID is the logged-in student's roster number, empty for teachers.
func GetStudentID(c *fiber.Ctx) string {
	sid, _ := c.Locals(LocStudentID).(string)
	return sid
}
