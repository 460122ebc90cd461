package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"edumark_backend/internals/features/users/auth/service"
	helper "edumark_backend/internals/helpers"
)

type AuthController struct {
	Auth     *service.AuthService
	Validate *validator.Validate
}

func NewAuthController(auth *service.AuthService) *AuthController {
	return &AuthController{Auth: auth, Validate: validator.New()}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type googleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

func loginMeta(c *fiber.Ctx) service.LoginMeta {
	return service.LoginMeta{UserAgent: c.Get(fiber.HeaderUserAgent), IP: c.IP()}
}

func (ac *AuthController) respondLogin(c *fiber.Ctx, res *service.LoginResult) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    res.AccessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  res.ExpiresAt,
	})
	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access_token": res.AccessToken,
		"expires_at":   res.ExpiresAt,
		"user":         res.User,
	})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := ac.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ac.Auth.Login(c.UserContext(), req.Email, req.Password, loginMeta(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ac.respondLogin(c, res)
}

// POST /api/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req googleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ac.Auth.LoginGoogle(c.UserContext(), req.IDToken, loginMeta(c))
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ac.respondLogin(c, res)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := ac.Auth.Logout(c.UserContext(), helper.GetSessionID(c)); err != nil {
		return helper.FromFiberError(c, err)
	}
	c.ClearCookie("access_token")
	return helper.JsonOK(c, "Logged out", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	user, err := ac.Auth.Me(c.UserContext(), userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", fiber.Map{"user": user})
}
