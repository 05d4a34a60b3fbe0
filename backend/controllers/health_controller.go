package controllers

import (
	"learnpath/backend/services"
	"learnpath/backend/store"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct {
	Store    store.Store
	Roadmaps *services.RoadmapService
	Videos   *services.VideoService
}

func NewHealthController(s store.Store, roadmaps *services.RoadmapService, videos *services.VideoService) *HealthController {
	return &HealthController{Store: s, Roadmaps: roadmaps, Videos: videos}
}

// Health reports liveness and which integrations run live rather than in demo mode.
func (hc *HealthController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":         true,
		"persistent": hc.Store.Persistent(),
		"integrations": fiber.Map{
			"openai":  hc.Roadmaps.Live(),
			"youtube": hc.Videos.Live(),
		},
	})
}
