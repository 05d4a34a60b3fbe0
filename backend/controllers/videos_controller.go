package controllers

import (
	"strings"
	"unicode/utf8"

	"learnpath/backend/services"
	"learnpath/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type VideosController struct {
	Videos *services.VideoService
}

func NewVideosController(videos *services.VideoService) *VideosController {
	return &VideosController{Videos: videos}
}

// Search godoc
// @Summary Search tutorial videos for a topic
// @Description Always answers 200 once the topic is valid; provider failures yield placeholder videos
// @Tags videos
// @Produce json
// @Param topic query string true "Topic"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /videos/search [get]
func (vc *VideosController) Search(c *fiber.Ctx) error {
	topic := strings.TrimSpace(c.Query("topic"))
	if utf8.RuneCountInString(topic) < 2 {
		return utils.WriteError(c, utils.NewValidationError("Invalid input",
			utils.FieldError{Field: "topic", Message: "topic must be at least 2 characters"}))
	}
	return c.JSON(fiber.Map{"videos": vc.Videos.Search(c.UserContext(), topic)})
}
