package repository

import (
	"errors"

	"crm-activity-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PartyRepository interface {
	Create(party *models.Party) error
	Update(party *models.Party) error
	GetByID(id uint) (*models.Party, error)
	GetByCode(code string) (*models.Party, error)
	Search(name string) ([]*models.Party, error)
	DeleteByID(id uint) error
}

type GormPartyRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormPartyRepository(db *gorm.DB) (*GormPartyRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.Party{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate parties table")
		return nil, err
	}

	logger.Info("Party repository initialized")

	return &GormPartyRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormPartyRepository) Create(party *models.Party) error {
	r.logger.WithFields(logrus.Fields{
		"code": party.Code,
		"name": party.Name,
	}).Info("Creating party")

	if party.Name == "" {
		return errors.New("party name is required")
	}

	result := r.db.Create(party)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create party")
		return result.Error
	}

	return nil
}

func (r *GormPartyRepository) Update(party *models.Party) error {
	result := r.db.Save(party)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update party")
		return result.Error
	}

	return nil
}

func (r *GormPartyRepository) GetByID(id uint) (*models.Party, error) {
	var party models.Party
	result := r.db.First(&party, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Party not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get party by ID")
		return nil, result.Error
	}

	return &party, nil
}

func (r *GormPartyRepository) GetByCode(code string) (*models.Party, error) {
	var party models.Party
	result := r.db.Where("code = ?", code).First(&party)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get party by code")
		return nil, result.Error
	}

	return &party, nil
}

// Search matches parties by code or name, the same pair the record name
// search uses.
func (r *GormPartyRepository) Search(name string) ([]*models.Party, error) {
	var parties []*models.Party
	pattern := "%" + name + "%"
	result := r.db.
		Where("code LIKE ? OR name LIKE ?", pattern, pattern).
		Order("name ASC").
		Find(&parties)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to search parties")
		return nil, result.Error
	}

	return parties, nil
}

func (r *GormPartyRepository) DeleteByID(id uint) error {
	result := r.db.Delete(&models.Party{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete party")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("party not found")
	}

	return nil
}
