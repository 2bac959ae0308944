package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"twinkle/internal/genai"
	applog "twinkle/internal/log"
	"twinkle/internal/services"
	"twinkle/internal/validate"
)

type ChatHandler struct {
	Assistant *services.AssistantService
}

type chatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Send forwards one user message (plus prior turns) to the assistant. A
// remote failure never surfaces as an error; the client gets the fallback
// reply instead.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var body struct {
		Message string     `json:"message"`
		History []chatTurn `json:"history"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	msg := strings.TrimSpace(body.Message)
	if msg == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty message"})
	}
	msg = validate.Truncate(msg, 2000)

	history := make([]genai.Turn, 0, len(body.History))
	for _, t := range body.History {
		role := "user"
		if t.Role == "model" {
			role = "model"
		}
		history = append(history, genai.Turn{Role: role, Text: t.Text})
	}

	reply, err := h.Assistant.Chat(c.Context(), history, msg)
	if err != nil {
		applog.Error(c, "chat.fail", err, nil)
		return c.JSON(services.ChatReply{Text: services.FallbackReply})
	}
	return c.JSON(reply)
}
