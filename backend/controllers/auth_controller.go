package controllers

import (
	"learnpath/backend/middleware"
	"learnpath/backend/services"
	"learnpath/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body services.RegisterRequest true "User registration data"
// @Success 201 {object} services.AuthResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	res, err := ac.Auth.Register(c.UserContext(), req)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Login credentials"
// @Success 200 {object} services.AuthResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	res, err := ac.Auth.Login(c.UserContext(), req)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(res)
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (ac *AuthController) Me(c *fiber.Ctx) error {
	user, err := ac.Auth.Me(c.UserContext(), middleware.Claims(c).UserID)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}
