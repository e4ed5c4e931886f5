package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"crm-activity-bot/internal/ics"
	"crm-activity-bot/internal/models"
	"crm-activity-bot/internal/service"
	"crm-activity-bot/pkg/timeutil"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// newActivity creates an activity from "type;date;[time];[minutes];[subject]".
func (h *Handler) newActivity(message *tgbotapi.Message, args string) {
	employee := h.requireEmployee(message)
	if employee == nil {
		return
	}

	parts := strings.Split(args, ";")
	if len(parts) < 2 {
		h.reply(message.Chat.ID, "Usage: /new <type>;<date>;[time];[minutes];[subject]")
		return
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	activityType, err := h.typeService.GetByName(parts[0])
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}
	if activityType == nil {
		h.reply(message.Chat.ID, fmt.Sprintf("❌ Unknown activity type %q. Ask an admin to seed it.", parts[0]))
		return
	}

	date, err := time.Parse("2006-01-02", parts[1])
	if err != nil {
		h.reply(message.Chat.ID, "❌ Date must look like 2026-04-02")
		return
	}

	input := service.CreateActivityInput{
		ActivityTypeID: activityType.ID,
		EmployeeID:     employee.ID,
		Date:           date,
	}

	if len(parts) > 2 && parts[2] != "" {
		clock, err := time.Parse("15:04", parts[2])
		if err != nil {
			h.reply(message.Chat.ID, "❌ Time must look like 09:30")
			return
		}
		input.Time = &clock
	}
	if len(parts) > 3 && parts[3] != "" {
		minutes, err := strconv.Atoi(parts[3])
		if err != nil || minutes < 0 {
			h.reply(message.Chat.ID, "❌ Duration must be a number of minutes")
			return
		}
		d := time.Duration(minutes) * time.Minute
		input.Duration = &d
	}
	if len(parts) > 4 {
		input.Subject = strings.Join(parts[4:], ";")
	}

	activity, err := h.activityService.Create(input)
	if err != nil {
		h.reply(message.Chat.ID, "❌ Failed to create activity: "+err.Error())
		return
	}

	text := fmt.Sprintf("✅ Created %s", activity.RecName())
	if activity.DtStart != nil && !activity.IsFullDay() {
		text += fmt.Sprintf("\n🕒 Starts %s UTC", activity.DtStart.Format("2006-01-02 15:04"))
	} else {
		text += fmt.Sprintf("\n📅 Full day %s", activity.Date.Format("2006-01-02"))
	}
	h.reply(message.Chat.ID, text)
}

// listActivities shows the employee's activities for a date, today by
// default, with the day busy hours from one aggregate read.
func (h *Handler) listActivities(message *tgbotapi.Message, args string) {
	employee := h.requireEmployee(message)
	if employee == nil {
		return
	}

	date := time.Now()
	if loc := employee.Company.Location(); loc != nil {
		date = date.In(loc)
	}
	if args = strings.TrimSpace(args); args != "" {
		parsed, err := time.Parse("2006-01-02", args)
		if err != nil {
			h.reply(message.Chat.ID, "❌ Date must look like 2026-04-02")
			return
		}
		date = parsed
	}

	activities, err := h.activityService.GetByEmployeeAndDate(employee.ID, date)
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}
	if len(activities) == 0 {
		h.reply(message.Chat.ID, fmt.Sprintf("📭 No activities on %s", date.Format("2006-01-02")))
		return
	}

	busy, err := h.activityService.DayBusyHours(activities)
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Activities on %s:\n", date.Format("2006-01-02"))
	for _, activity := range activities {
		when := "all day"
		if activity.Time != nil {
			when = activity.Time.Format("15:04")
		}
		fmt.Fprintf(&sb, "\n%s %s  %s  %s (%s)",
			stateIcon(activity.State),
			activity.Code,
			when,
			headline(activity),
			activity.ActivityType.Name)
	}
	if len(activities) > 0 {
		if total, ok := busy[activities[0].ID]; ok && total > 0 {
			fmt.Fprintf(&sb, "\n\n⏱ Busy that day: %s", timeutil.DurationString(total))
		}
	}
	h.reply(message.Chat.ID, sb.String())
}

func (h *Handler) showSummary(message *tgbotapi.Message, args string) {
	activity, ok := h.lookupActivity(message, args)
	if !ok {
		return
	}

	busy, err := h.activityService.DayBusyHours([]*models.Activity{activity})
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}

	h.reply(message.Chat.ID, h.activityService.Summary(activity, busy[activity.ID]))
}

func (h *Handler) showActivity(message *tgbotapi.Message, args string) {
	activity, ok := h.lookupActivity(message, args)
	if !ok {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", stateIcon(activity.State), activity.RecName())
	fmt.Fprintf(&sb, "Type: %s\n", activity.ActivityType.Name)
	fmt.Fprintf(&sb, "Date: %s", activity.Date.Format("2006-01-02"))
	if activity.Time != nil {
		fmt.Fprintf(&sb, " %s", activity.Time.Format("15:04"))
	} else {
		sb.WriteString(" (full day)")
	}
	sb.WriteString("\n")
	if activity.Duration != nil {
		fmt.Fprintf(&sb, "Duration: %s\n", timeutil.DurationString(*activity.Duration))
	}
	if activity.Party != nil {
		fmt.Fprintf(&sb, "Party: %s\n", activity.Party.RecName())
	}
	if activity.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", activity.Location)
	}
	fmt.Fprintf(&sb, "Colors: %s on %s\n",
		h.activityService.CalendarColor(activity),
		h.activityService.CalendarBackgroundColor(activity))
	if activity.Description != "" {
		sb.WriteString("\n" + h.activityService.HTML(activity))
	}

	h.replyHTML(message.Chat.ID, sb.String())
}

func (h *Handler) transition(
	message *tgbotapi.Message,
	args string,
	fn func(code string) (*models.Activity, error),
	label string,
) {
	code := strings.TrimSpace(args)
	if code == "" {
		h.reply(message.Chat.ID, "Usage: /<plan|done|cancel> <code>")
		return
	}

	activity, err := fn(code)
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}

	h.reply(message.Chat.ID, fmt.Sprintf("%s: %s", label, activity.RecName()))
}

// splitActivity asks for confirmation first; the actual split runs in
// the callback handler.
func (h *Handler) splitActivity(message *tgbotapi.Message, args string) {
	code := strings.TrimSpace(args)
	if code == "" {
		h.reply(message.Chat.ID, "Usage: /split <code>")
		return
	}

	_, err := h.activityService.Split(code, false)
	var confirm *service.SplitConfirmationError
	if errors.As(err, &confirm) {
		msg := tgbotapi.NewMessage(message.Chat.ID,
			fmt.Sprintf("⚠️ This will create %d new activities from %s. Continue?", confirm.Parts, code))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Split", "confirm_split_"+code),
				tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "cancel_split"),
			),
		)
		if _, err := h.client.Bot.Send(msg); err != nil {
			logrus.WithError(err).Error("Failed to send message")
		}
		return
	}
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
	}
}

func (h *Handler) confirmSplit(chatID int64, code string) {
	children, err := h.activityService.Split(code, true)
	if err != nil {
		h.reply(chatID, "❌ Split failed: "+err.Error())
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✂️ Split %s into %d activities:", code, len(children))
	for _, child := range children {
		fmt.Fprintf(&sb, "\n• %s", child.Code)
	}
	h.reply(chatID, sb.String())
}

func (h *Handler) exportICal(message *tgbotapi.Message) {
	employee := h.requireEmployee(message)
	if employee == nil {
		return
	}

	activities, err := h.activityService.GetByEmployee(employee.ID, 0)
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return
	}
	if len(activities) == 0 {
		h.reply(message.Chat.ID, "📭 Nothing to export")
		return
	}

	file := tgbotapi.FileBytes{
		Name:  "activities.ics",
		Bytes: []byte(ics.Export(activities)),
	}
	doc := tgbotapi.NewDocument(message.Chat.ID, file)
	doc.Caption = fmt.Sprintf("📆 %d activities", len(activities))
	if _, err := h.client.Bot.Send(doc); err != nil {
		h.reply(message.Chat.ID, "❌ Failed to send calendar file")
	}
}

func (h *Handler) lookupActivity(message *tgbotapi.Message, args string) (*models.Activity, bool) {
	code := strings.TrimSpace(args)
	if code == "" {
		h.reply(message.Chat.ID, "Usage: /<show|summary> <code>")
		return nil, false
	}

	activity, err := h.activityService.GetByCode(code)
	if err != nil {
		h.reply(message.Chat.ID, "❌ "+err.Error())
		return nil, false
	}
	return activity, true
}

func headline(activity *models.Activity) string {
	if activity.Subject != "" {
		return activity.Subject
	}
	if activity.Party != nil {
		return activity.Party.RecName()
	}
	return activity.Code
}

func stateIcon(state string) string {
	switch state {
	case models.StateDone:
		return "✅"
	case models.StateCancelled:
		return "🚫"
	default:
		return "🗓"
	}
}
