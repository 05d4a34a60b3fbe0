package controllers

import (
	"learnpath/backend/middleware"
	"learnpath/backend/services"
	"learnpath/backend/store"
	"learnpath/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProfileController struct {
	Store    store.Store
	Profiles *services.ProfileService
}

func NewProfileController(s store.Store, profiles *services.ProfileService) *ProfileController {
	return &ProfileController{Store: s, Profiles: profiles}
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Saves the caller's profile fields
// @Tags profile
// @Accept json
// @Produce json
// @Param request body services.ProfileRequest true "Profile"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /profile [post]
func (pc *ProfileController) UpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	user, err := pc.Profiles.Update(c.UserContext(), middleware.Claims(c).UserID, req)
	if err != nil {
		return utils.WriteError(c, err)
	}

	persisted := pc.Store.Persistent()
	message := "Profile saved successfully"
	if !persisted {
		message = "Profile saved successfully (demo mode - data not persisted)"
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   message,
		"data":      user,
		"persisted": persisted,
	})
}

// GetProfile godoc
// @Summary Profile by email
// @Tags profile
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /profile/{email} [get]
func (pc *ProfileController) GetProfile(c *fiber.Ctx) error {
	email := c.Params("email")
	if !utils.ValidEmail(email) {
		return utils.BadRequest(c, "Valid email is required")
	}
	user, err := pc.Profiles.ByEmail(c.UserContext(), email)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "", user)
}
