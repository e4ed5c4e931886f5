package service

import (
	"fmt"
	"time"

	"crm-activity-bot/internal/models"
	"crm-activity-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// ActivityTypeSeed is one entry of a YAML seed file for activity types.
type ActivityTypeSeed struct {
	Name               string `yaml:"name"`
	Color              string `yaml:"color"`
	Sequence           int    `yaml:"sequence"`
	DefaultMinutes     int    `yaml:"default_minutes"`
	DefaultDescription string `yaml:"default_description"`
}

type ActivityTypeService struct {
	typeRepo repository.ActivityTypeRepository
	logger   *logrus.Logger
}

func NewActivityTypeService(typeRepo repository.ActivityTypeRepository) *ActivityTypeService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ActivityTypeService{
		typeRepo: typeRepo,
		logger:   logger,
	}
}

func (s *ActivityTypeService) GetActive() ([]*models.ActivityType, error) {
	return s.typeRepo.GetActive()
}

func (s *ActivityTypeService) GetByName(name string) (*models.ActivityType, error) {
	return s.typeRepo.GetByName(name)
}

// Seed creates the activity types from a seed list, skipping names that
// already exist.
func (s *ActivityTypeService) Seed(seeds []ActivityTypeSeed) (int, error) {
	created := 0
	for _, seed := range seeds {
		if seed.Name == "" {
			return created, fmt.Errorf("seed entry %d has no name", created)
		}

		existing, err := s.typeRepo.GetByName(seed.Name)
		if err != nil {
			return created, err
		}
		if existing != nil {
			s.logger.WithField("name", seed.Name).Debug("Activity type already exists, skipping")
			continue
		}

		activityType := &models.ActivityType{
			Name:               seed.Name,
			Color:              seed.Color,
			Sequence:           seed.Sequence,
			Active:             true,
			DefaultDescription: seed.DefaultDescription,
		}
		if seed.DefaultMinutes > 0 {
			d := time.Duration(seed.DefaultMinutes) * time.Minute
			activityType.DefaultDuration = &d
		}

		if err := s.typeRepo.Create(activityType); err != nil {
			return created, err
		}
		created++
	}

	s.logger.WithField("created", created).Info("Activity types seeded")

	return created, nil
}
