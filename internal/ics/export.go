// Package ics serializes activities into an iCalendar feed.
package ics

import (
	"fmt"

	ical "github.com/arran4/golang-ical"

	"crm-activity-bot/internal/models"
)

// Export renders the activities as an iCalendar document. Full-day
// activities become all-day events; timed activities carry their UTC
// start and, when derived, end timestamps.
func Export(activities []*models.Activity) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//crm-activity-bot//EN")

	for _, activity := range activities {
		event := cal.AddEvent(uid(activity))
		event.SetSummary(summary(activity))
		if activity.Description != "" {
			event.SetDescription(activity.Description)
		}
		if activity.Location != "" {
			event.SetLocation(activity.Location)
		}
		event.SetProperty(ical.ComponentPropertyStatus, status(activity))

		if activity.IsFullDay() || activity.DtStart == nil {
			event.SetAllDayStartAt(activity.Date)
			event.SetAllDayEndAt(activity.Date.AddDate(0, 0, 1))
			continue
		}

		event.SetStartAt(activity.DtStart.UTC())
		if activity.DtEnd != nil {
			event.SetEndAt(activity.DtEnd.UTC())
		}
	}

	return cal.Serialize()
}

func uid(activity *models.Activity) string {
	return fmt.Sprintf("%s@crm-activity-bot", activity.Code)
}

func summary(activity *models.Activity) string {
	if activity.Subject != "" {
		return fmt.Sprintf("%s (%s)", activity.Subject, activity.ActivityType.Name)
	}
	return fmt.Sprintf("%s (%s)", activity.Code, activity.ActivityType.Name)
}

func status(activity *models.Activity) string {
	switch activity.State {
	case models.StateDone:
		return "CONFIRMED"
	case models.StateCancelled:
		return "CANCELLED"
	default:
		return "TENTATIVE"
	}
}
