package service

import (
	"fmt"
	"time"

	"crm-activity-bot/internal/repository"
	"crm-activity-bot/pkg/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderService messages employees about planned activities starting
// within the lead window. Each activity is reminded at most once.
type ReminderService struct {
	activityRepo repository.ActivityRepository
	client       *telegram.Client
	lead         time.Duration
	cron         *cron.Cron
	logger       *logrus.Logger
}

func NewReminderService(
	activityRepo repository.ActivityRepository,
	client *telegram.Client,
	lead time.Duration,
) *ReminderService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ReminderService{
		activityRepo: activityRepo,
		client:       client,
		lead:         lead,
		cron:         cron.New(),
		logger:       logger,
	}
}

// Start schedules the reminder sweep with a cron spec like "@every 1m".
func (s *ReminderService) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return err
	}
	s.cron.Start()

	s.logger.WithFields(logrus.Fields{
		"spec": spec,
		"lead": s.lead,
	}).Info("Reminder scheduler started")

	return nil
}

func (s *ReminderService) Stop() {
	s.cron.Stop()
}

func (s *ReminderService) sweep() {
	now := time.Now().UTC()
	activities, err := s.activityRepo.GetPlannedBetween(now, now.Add(s.lead))
	if err != nil {
		s.logger.WithError(err).Error("Reminder sweep failed")
		return
	}

	for _, activity := range activities {
		if activity.ReminderSent || activity.Employee.ChatID == 0 {
			continue
		}

		text := fmt.Sprintf("⏰ Upcoming activity %s (%s) at %s",
			activity.RecName(),
			activity.ActivityType.Name,
			activity.DtStart.Format("15:04"))
		msg := tgbotapi.NewMessage(activity.Employee.ChatID, text)
		if _, err := s.client.Bot.Send(msg); err != nil {
			s.logger.WithError(err).WithField("code", activity.Code).Error("Failed to send reminder")
			continue
		}

		if err := s.activityRepo.MarkReminderSent(activity.ID); err != nil {
			s.logger.WithError(err).WithField("code", activity.Code).Error("Failed to mark reminder sent")
		}
	}
}
