package handler

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (h *Handler) newParty(message *tgbotapi.Message, args string) {
	if h.config.BaseAdminChatID != 0 && message.Chat.ID != h.config.BaseAdminChatID {
		h.reply(message.Chat.ID, "🔒 Only the admin can create parties.")
		return
	}

	parts := strings.SplitN(args, ";", 2)
	if len(parts) != 2 {
		h.reply(message.Chat.ID, "Usage: /newparty <code>;<name>")
		return
	}

	party, err := h.partyService.Create(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}

	h.reply(message.Chat.ID, "✅ Created party "+party.RecName())
}

func (h *Handler) searchParties(message *tgbotapi.Message, args string) {
	query := strings.TrimSpace(args)
	if query == "" {
		h.reply(message.Chat.ID, "Usage: /parties <text>")
		return
	}

	parties, err := h.partyService.Search(query)
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}
	if len(parties) == 0 {
		h.reply(message.Chat.ID, "📭 No parties found")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏢 Parties matching %q:", query)
	for _, party := range parties {
		fmt.Fprintf(&sb, "\n• %s", party.RecName())
	}
	h.reply(message.Chat.ID, sb.String())
}
