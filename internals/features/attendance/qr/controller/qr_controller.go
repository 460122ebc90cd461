// file: internals/features/attendance/qr/controller/qr_controller.go
package controller

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"edumark_backend/internals/constants"
	"edumark_backend/internals/features/attendance/qr/dto"
	"edumark_backend/internals/features/attendance/qr/service"
	helper "edumark_backend/internals/helpers"
)

type QRController struct {
	Issuer    *service.Issuer
	Validator *service.Validator
	Validate  *validator.Validate
}

func NewQRController(issuer *service.Issuer, v *service.Validator) *QRController {
	return &QRController{Issuer: issuer, Validator: v, Validate: validator.New()}
}

// writeAttendanceError renders {success:false, error, error_code}.
func writeAttendanceError(c *fiber.Ctx, err error, fallback string) error {
	ae := service.AsAttendanceError(err, fallback)
	if ae.Status >= fiber.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), ae)
	}
	return helper.JsonFail(c, ae.Status, string(ae.Kind), ae.Message)
}

func requestFormat(c *fiber.Ctx) error {
	return writeAttendanceError(c, service.ErrRequestFormat, "")
}

// POST /api/qr/generate
func (ctl *QRController) Generate(c *fiber.Ctx) error {
	var req dto.GenerateQRRequest
	if err := c.BodyParser(&req); err != nil {
		return requestFormat(c)
	}
	req.Normalize()
	if req.TeacherID == "" && helper.GetUserRole(c) == constants.RoleTeacher {
		req.TeacherID, _ = helper.GetUserID(c)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return requestFormat(c)
	}

	issued, err := ctl.Issuer.Issue(c.UserContext(), req.ToInput())
	if err != nil {
		return writeAttendanceError(c, err, "Failed to generate QR code")
	}
	return c.Status(fiber.StatusOK).JSON(dto.FromIssuedToken(issued))
}

// POST /api/qr/validate
func (ctl *QRController) ValidateQR(c *fiber.Ctx) error {
	var req dto.ValidateQRRequest
	if err := c.BodyParser(&req); err != nil {
		return requestFormat(c)
	}
	req.Normalize()
	// a logged-in student always claims as themselves
	if own := helper.GetStudentID(c); own != "" {
		if req.StudentID != "" && req.StudentID != own {
			return helper.JsonFail(c, fiber.StatusForbidden, "", "studentId does not match the logged-in student")
		}
		req.StudentID = own
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return requestFormat(c)
	}

	acc, err := ctl.Validator.Validate(c.UserContext(), req.ToInput())
	if err != nil {
		return writeAttendanceError(c, err, "Failed to validate QR code")
	}
	return c.Status(fiber.StatusOK).JSON(dto.FromAcceptance(acc))
}

// GET /api/qr/image?data=&size=256&format=png|webp
func (ctl *QRController) Image(c *fiber.Ctx) error {
	data := c.Query("data")
	if data == "" {
		return requestFormat(c)
	}
	format, ok := service.ParseImageFormat(c.Query("format"))
	if !ok {
		return requestFormat(c)
	}
	size, err := strconv.Atoi(c.Query("size", strconv.Itoa(service.DefaultImageSize)))
	if err != nil {
		return requestFormat(c)
	}

	img, err := service.RenderQR(data, size, format)
	if err != nil {
		return writeAttendanceError(c, err, "Failed to render QR code")
	}
	c.Set(fiber.HeaderContentType, format.ContentType())
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(fiber.StatusOK).Send(img)
}
