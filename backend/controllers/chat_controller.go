package controllers

import (
	"strings"

	"learnpath/backend/services"
	"learnpath/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ChatController struct {
	Chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{Chat: chat}
}

type chatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// Reply godoc
// @Summary Ask the learning assistant
// @Tags chat
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Router /chat [post]
func (cc *ChatController) Reply(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := utils.Validate(req); err != nil {
		return utils.WriteError(c, err)
	}
	return c.JSON(fiber.Map{"response": cc.Chat.Reply(c.UserContext(), req.Message)})
}
