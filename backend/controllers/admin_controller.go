package controllers

import (
	"errors"

	"learnpath/backend/store"
	"learnpath/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const adminListLimit = 50

type AdminController struct {
	Store store.Store
}

func NewAdminController(s store.Store) *AdminController {
	return &AdminController{Store: s}
}

// RequireDurable rejects admin work against the in-memory store.
func (ac *AdminController) RequireDurable(c *fiber.Ctx) error {
	if !ac.Store.Persistent() {
		return utils.WriteError(c, utils.NewPersistenceUnavailable("Database not connected"))
	}
	return c.Next()
}

// ListRoadmaps godoc
// @Summary Recent roadmaps
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/roadmaps [get]
func (ac *AdminController) ListRoadmaps(c *fiber.Ctx) error {
	items, err := ac.Store.ListRoadmaps(c.UserContext(), adminListLimit)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}

// ApproveRoadmap godoc
// @Summary Approve a roadmap
// @Tags admin
// @Produce json
// @Param id path string true "Roadmap ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/roadmaps/{id}/approve [post]
func (ac *AdminController) ApproveRoadmap(c *fiber.Ctx) error {
	roadmap, err := ac.Store.ApproveRoadmap(c.UserContext(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return utils.NotFound(c, "Roadmap not found")
	}
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(fiber.Map{"roadmap": roadmap})
}
