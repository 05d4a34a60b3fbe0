package controllers

import (
	"learnpath/backend/middleware"
	"learnpath/backend/services"
	"learnpath/backend/store"
	"learnpath/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct {
	Store    store.Store
	Progress *services.ProgressService
}

func NewProgressController(s store.Store, progress *services.ProgressService) *ProgressController {
	return &ProgressController{Store: s, Progress: progress}
}

type progressResponse struct {
	*services.CourseProgress
	Persisted bool `json:"persisted"`
}

// GetProgress godoc
// @Summary Get course progress
// @Description Returns the caller's completed topics and completion percentages for a course
// @Tags progress
// @Produce json
// @Param courseId query string true "Course slug"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	courseID := c.Query("courseId")
	if courseID == "" {
		return utils.BadRequest(c, "Missing params")
	}
	res, err := pc.Progress.Get(c.UserContext(), middleware.Claims(c).UserID, courseID)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(progressResponse{CourseProgress: res, Persisted: pc.Store.Persistent()})
}

// UpdateProgress godoc
// @Summary Mark a topic completed or not
// @Tags progress
// @Accept json
// @Produce json
// @Param request body services.ProgressUpdate true "Topic state"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [post]
func (pc *ProgressController) UpdateProgress(c *fiber.Ctx) error {
	var req services.ProgressUpdate
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid input")
	}
	res, err := pc.Progress.Set(c.UserContext(), middleware.Claims(c).UserID, req)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(progressResponse{CourseProgress: res, Persisted: pc.Store.Persistent()})
}
