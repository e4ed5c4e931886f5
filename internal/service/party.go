package service

import (
	"errors"
	"fmt"

	"crm-activity-bot/internal/models"
	"crm-activity-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type PartyService struct {
	partyRepo    repository.PartyRepository
	activityRepo repository.ActivityRepository
	logger       *logrus.Logger
}

func NewPartyService(
	partyRepo repository.PartyRepository,
	activityRepo repository.ActivityRepository,
) *PartyService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &PartyService{
		partyRepo:    partyRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func (s *PartyService) Create(code, name string) (*models.Party, error) {
	if name == "" {
		return nil, errors.New("party name is required")
	}
	if code != "" {
		existing, err := s.partyRepo.GetByCode(code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("party with code %s already exists", code)
		}
	}

	party := &models.Party{Code: code, Name: name}
	if err := s.partyRepo.Create(party); err != nil {
		return nil, err
	}
	return party, nil
}

func (s *PartyService) GetByCode(code string) (*models.Party, error) {
	return s.partyRepo.GetByCode(code)
}

func (s *PartyService) Search(name string) ([]*models.Party, error) {
	return s.partyRepo.Search(name)
}

// Replace re-points every activity of the source party at the target,
// this module's share of a party merge.
func (s *PartyService) Replace(fromCode, toCode string) (int64, error) {
	from, err := s.partyRepo.GetByCode(fromCode)
	if err != nil {
		return 0, err
	}
	if from == nil {
		return 0, fmt.Errorf("party %s not found", fromCode)
	}

	to, err := s.partyRepo.GetByCode(toCode)
	if err != nil {
		return 0, err
	}
	if to == nil {
		return 0, fmt.Errorf("party %s not found", toCode)
	}

	moved, err := s.activityRepo.ReassignParty(from.ID, to.ID)
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"from":  fromCode,
		"to":    toCode,
		"moved": moved,
	}).Info("Party replaced on activities")

	return moved, nil
}
