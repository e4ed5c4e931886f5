package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm-activity-bot/internal/config"
	"crm-activity-bot/internal/handler"
	"crm-activity-bot/internal/repository"
	"crm-activity-bot/internal/service"
	"crm-activity-bot/pkg/telegram"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetBotConfig()
	logrus.Info("Config initialized...")

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite ограничения
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	// Включаем поддержку внешних ключей (требуется для SQLite)
	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		logrus.Infof("Warning: Failed to enable foreign keys: %v", err)
	}

	activityRepo, err := repository.NewGormActivityRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create activity repository")
	}

	typeRepo, err := repository.NewGormActivityTypeRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create activity type repository")
	}

	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create employee repository")
	}

	partyRepo, err := repository.NewGormPartyRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create party repository")
	}

	companyRepo, err := repository.NewGormCompanyRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create company repository")
	}

	configRepo, err := repository.NewGormConfigurationRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create configuration repository")
	}

	activityService := service.NewActivityService(
		activityRepo,
		typeRepo,
		employeeRepo,
		partyRepo,
		configRepo,
		cfg.UseTypeColor,
	)
	employeeService := service.NewEmployeeService(employeeRepo, companyRepo)
	partyService := service.NewPartyService(partyRepo, activityRepo)
	typeService := service.NewActivityTypeService(typeRepo)

	client, err := telegram.NewClient(cfg.TelegramToken, cfg.Debug)
	if err != nil {
		logrus.Fatal("Failed to create Telegram client:", err)
	}

	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	reminderService := service.NewReminderService(
		activityRepo,
		client,
		time.Duration(cfg.ReminderLeadMinutes)*time.Minute,
	)
	if cfg.ReminderSpec != "" {
		if err := reminderService.Start(cfg.ReminderSpec); err != nil {
			logrus.WithError(err).Fatal("Failed to start reminder sweep")
		}
		logrus.Infof("Reminder sweep scheduled: %s", cfg.ReminderSpec)
	}

	botHandler := handler.NewHandler(
		client,
		activityService,
		employeeService,
		partyService,
		typeService,
		cfg,
	)

	updates := client.Bot.GetUpdatesChan(client.UpdateConfig)

	// Обработка сигналов для graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go botHandler.HandleUpdates(updates)

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-stop

	reminderService.Stop()

	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Bot stopped gracefully")
}
