package handler

import (
	"fmt"
	"strings"

	"crm-activity-bot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) start(message *tgbotapi.Message) {
	name := strings.TrimSpace(message.From.FirstName + " " + message.From.LastName)
	if name == "" {
		name = message.From.UserName
	}

	employee, err := h.employeeService.Register(message.Chat.ID, name, 0)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Registration failed: "+err.Error())
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf(
		"👋 Hello %s! You are registered at %s.\nUse /help to see what I can do.",
		employee.Name, employee.Company.Name))
}

func (h *Handler) setColor(message *tgbotapi.Message, args string) {
	color := strings.TrimSpace(args)
	if color == "" {
		h.reply(message.Chat.ID, "Usage: /setcolor #RRGGBB")
		return
	}

	employee, err := h.employeeService.SetColor(message.Chat.ID, color)
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf("🎨 Calendar color set to %s", employee.Color))
}

// requireEmployee resolves the sender to a registered employee or tells
// them to /start.
func (h *Handler) requireEmployee(message *tgbotapi.Message) *models.Employee {
	employee, err := h.employeeService.GetByChatID(message.Chat.ID)
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return nil
	}
	if employee == nil {
		h.reply(message.Chat.ID, "🙋 You are not registered yet. Send /start first.")
		return nil
	}
	return employee
}
