package controllers

import (
	"learnpath/backend/store"
	"learnpath/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CatalogueController struct {
	Store store.Store
}

func NewCatalogueController(s store.Store) *CatalogueController {
	return &CatalogueController{Store: s}
}

// SearchCourses godoc
// @Summary Courses that have generated roadmaps
// @Tags courses
// @Produce json
// @Param search query string false "Name filter"
// @Param limit query int false "Max results (default 20, max 100)"
// @Success 200 {object} utils.SuccessResponse
// @Router /courses [get]
func (cc *CatalogueController) SearchCourses(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	courses, err := cc.Store.ListCourses(c.UserContext(), c.Query("search"), limit)
	if err != nil {
		return utils.WriteError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, "", courses)
}
