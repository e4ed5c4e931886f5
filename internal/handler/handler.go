package handler

import (
	"strings"

	"crm-activity-bot/internal/config"
	"crm-activity-bot/internal/service"
	"crm-activity-bot/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	client          *telegram.Client
	activityService *service.ActivityService
	employeeService *service.EmployeeService
	partyService    *service.PartyService
	typeService     *service.ActivityTypeService
	config          *config.BotConfig
}

func NewHandler(
	client *telegram.Client,
	activityService *service.ActivityService,
	employeeService *service.EmployeeService,
	partyService *service.PartyService,
	typeService *service.ActivityTypeService,
	cfg *config.BotConfig,
) *Handler {
	return &Handler{
		client:          client,
		activityService: activityService,
		employeeService: employeeService,
		partyService:    partyService,
		typeService:     typeService,
		config:          cfg,
	}
}

func (h *Handler) HandleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.CallbackQuery != nil {
			h.handleCallbackQuery(update.CallbackQuery)
			continue
		}

		if update.Message == nil {
			continue
		}

		h.handleMessage(update.Message)
	}
}

func (h *Handler) handleMessage(message *tgbotapi.Message) {
	if !message.IsCommand() {
		return
	}
	h.handleCommand(message)
}

func (h *Handler) handleCommand(message *tgbotapi.Message) {
	command := message.Command()
	args := message.CommandArguments()

	switch command {
	case "start":
		h.start(message)
	case "help":
		h.sendHelpMessage(message)
	case "setcolor":
		h.setColor(message, args)

	case "new":
		h.newActivity(message, args)
	case "today":
		h.listActivities(message, "")
	case "list":
		h.listActivities(message, args)
	case "summary":
		h.showSummary(message, args)
	case "show":
		h.showActivity(message, args)

	case "plan":
		h.transition(message, args, h.activityService.Plan, "🗓 Planned")
	case "done":
		h.transition(message, args, h.activityService.Do, "✅ Held")
	case "cancel":
		h.transition(message, args, h.activityService.Cancel, "🚫 Not held")
	case "split":
		h.splitActivity(message, args)

	case "ical":
		h.exportICal(message)

	case "newparty":
		h.newParty(message, args)
	case "parties":
		h.searchParties(message, args)

	default:
		h.reply(message.Chat.ID, "Unknown command. Use /help.")
	}
}

// handleCallbackQuery обрабатывает inline кнопки
func (h *Handler) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Удаляем клавиатуру
	editMsg := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID, tgbotapi.NewInlineKeyboardMarkup())
	if _, err := h.client.Bot.Send(editMsg); err != nil {
		logrus.WithError(err).Error("Failed to remove inline keyboard")
	}

	if code, ok := strings.CutPrefix(data, "confirm_split_"); ok {
		h.confirmSplit(chatID, code)
		return
	}

	if data == "cancel_split" {
		h.reply(chatID, "❌ Split cancelled.")
		return
	}

	logrus.WithField("data", data).Debug("Unhandled callback query")
}

func (h *Handler) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.client.Bot.Send(msg); err != nil {
		logrus.WithError(err).Error("Failed to send message")
	}
}

func (h *Handler) replyHTML(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := h.client.Bot.Send(msg); err != nil {
		logrus.WithError(err).Error("Failed to send message")
	}
}

func (h *Handler) sendHelpMessage(message *tgbotapi.Message) {
	help := `📒 Activity bot commands:

/start - register as employee
/setcolor #RRGGBB - set your calendar color

/new <type>;<date>;[time];[minutes];[subject] - create activity
   example: /new Meeting;2026-04-02;09:30;90;Kickoff
/today - my activities for today
/list <YYYY-MM-DD> - my activities for a date
/show <code> - activity details
/summary <code> - activity summary

/plan <code> - mark as planned
/done <code> - mark as held
/cancel <code> - mark as not held
/split <code> - split into sub-activities by "---" sections

/ical - export my activities as an iCalendar file

/newparty <code>;<name> - create party
/parties <text> - search parties`

	h.reply(message.Chat.ID, help)
}
