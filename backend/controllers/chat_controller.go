package controllers

import (
	"fmt"

	"studyhub/backend/ai"
	"studyhub/backend/config"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ChatController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Client *ai.Client
}

func NewChatController(db *gorm.DB, cfg *config.Config) *ChatController {
	return &ChatController{DB: db, Cfg: cfg, Client: ai.NewClient(cfg)}
}

// Chat godoc
// @Summary Ask the study assistant a question
// @Tags chat
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat [post]
func (cc *ChatController) Chat(c *fiber.Ctx) error {
	type ChatInput struct {
		Message string `json:"message"`
	}

	var input ChatInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Message == "" {
		return utils.BadRequest(c, "Message is required")
	}

	// Mock reply keeps development working without an API key.
	if !cc.Cfg.UseAIAPI {
		mock := fmt.Sprintf("(Mock Response) You asked: '%s'. Here's a helpful suggestion.", input.Message)
		return c.JSON(fiber.Map{"response": mock})
	}

	answer, err := cc.Client.Chat(c.Context(), []ai.Message{
		{Role: "system", Content: "You are a helpful study assistant."},
		{Role: "user", Content: input.Message},
	})
	if err != nil {
		return utils.InternalServerError(c, "Failed to get a response from the assistant")
	}

	return c.JSON(fiber.Map{"response": answer})
}
