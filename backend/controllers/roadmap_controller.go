package controllers

import (
	"context"
	"errors"
	"strings"

	"learnpath/backend/config"
	"learnpath/backend/models"
	"learnpath/backend/services"
	"learnpath/backend/store"
	"learnpath/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type RoadmapController struct {
	Store    store.Store
	Cfg      *config.Config
	Roadmaps *services.RoadmapService
	Enricher *services.Enricher
	Log      *utils.Logger
}

func NewRoadmapController(s store.Store, cfg *config.Config, roadmaps *services.RoadmapService, enricher *services.Enricher, log *utils.Logger) *RoadmapController {
	return &RoadmapController{Store: s, Cfg: cfg, Roadmaps: roadmaps, Enricher: enricher, Log: log.With("controller", "roadmap")}
}

type courseView struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Generate godoc
// @Summary Generate a learning roadmap
// @Description Builds a Beginner/Intermediate/Advanced roadmap for a course name
// @Tags roadmap
// @Accept json
// @Produce json
// @Param request body models.CourseRequest true "Course name"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /roadmap/generate [post]
func (rc *RoadmapController) Generate(c *fiber.Ctx) error {
	var req models.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	req.CourseName = strings.TrimSpace(req.CourseName)
	if err := utils.Validate(req); err != nil {
		return utils.WriteError(c, err)
	}

	ctx := c.UserContext()
	plan, err := rc.Roadmaps.Synthesize(ctx, req.CourseName)
	if err != nil {
		return utils.WriteError(c, err)
	}

	course := courseView{Name: req.CourseName, Slug: models.Slugify(req.CourseName)}
	var roadmap interface{} = plan
	persisted := false

	stored, err := store.FindOrCreateCourse(ctx, rc.Store, req.CourseName)
	if err == nil {
		record := models.NewRoadmap(stored.ID, plan)
		if err = rc.Store.CreateRoadmap(ctx, record); err == nil {
			course = courseView{ID: stored.ID, Name: stored.Name, Slug: stored.Slug}
			roadmap = record
			persisted = rc.Store.Persistent()
		}
	}
	if err != nil {
		rc.Log.Warn("roadmap not saved", "course", course.Slug, "error", err)
	}

	return c.JSON(fiber.Map{
		"course":    course,
		"roadmap":   roadmap,
		"persisted": persisted,
	})
}

type enrichRequest struct {
	Topics []enrichTopic `json:"topics" validate:"required,min=1,max=100,dive"`
}

type enrichTopic struct {
	Title string `json:"title" validate:"required,min=2"`
}

// Enrich godoc
// @Summary Attach videos to roadmap topics
// @Description Looks up to three videos for every distinct topic title
// @Tags roadmap
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /roadmap/enrich [post]
func (rc *RoadmapController) Enrich(c *fiber.Ctx) error {
	var req enrichRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	for i := range req.Topics {
		req.Topics[i].Title = strings.TrimSpace(req.Topics[i].Title)
	}
	if err := utils.Validate(req); err != nil {
		return utils.WriteError(c, err)
	}

	topics := make([]models.Topic, len(req.Topics))
	for i, t := range req.Topics {
		topics[i] = models.Topic{Title: t.Title}
	}
	// fasthttp does not report client disconnects, so the deadline is what ends
	// abandoned lookups.
	ctx := c.UserContext()
	if rc.Cfg.EnrichTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rc.Cfg.EnrichTimeout)
		defer cancel()
	}
	videos, err := rc.Enricher.Enrich(ctx, topics)
	if err != nil {
		rc.Log.Warn("enrichment interrupted", "completed", len(videos), "error", err)
	}
	return c.JSON(fiber.Map{
		"videos":  videos,
		"partial": err != nil,
	})
}

// GetBySlug godoc
// @Summary Latest stored roadmap of a course
// @Tags roadmap
// @Produce json
// @Param slug path string true "Course slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /roadmap/{slug} [get]
func (rc *RoadmapController) GetBySlug(c *fiber.Ctx) error {
	ctx := c.UserContext()
	course, err := rc.Store.FindCourseBySlug(ctx, c.Params("slug"))
	if errors.Is(err, store.ErrNotFound) {
		return utils.NotFound(c, "Course not found")
	}
	if err != nil {
		return utils.WriteError(c, err)
	}
	roadmap, err := rc.Store.LatestRoadmap(ctx, course.ID)
	if errors.Is(err, store.ErrNotFound) {
		return utils.NotFound(c, "Roadmap not found")
	}
	if err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(fiber.Map{
		"course":    courseView{ID: course.ID, Name: course.Name, Slug: course.Slug},
		"roadmap":   roadmap,
		"persisted": rc.Store.Persistent(),
	})
}
