package repository

import (
	"errors"

	"crm-activity-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ActivityTypeRepository interface {
	Create(activityType *models.ActivityType) error
	Update(activityType *models.ActivityType) error
	GetByID(id uint) (*models.ActivityType, error)
	GetByName(name string) (*models.ActivityType, error)
	GetActive() ([]*models.ActivityType, error)
	Deactivate(id uint) error
}

type GormActivityTypeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormActivityTypeRepository(db *gorm.DB) (*GormActivityTypeRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.ActivityType{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate activity_types table")
		return nil, err
	}

	logger.Info("Activity type repository initialized")

	return &GormActivityTypeRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormActivityTypeRepository) Create(activityType *models.ActivityType) error {
	r.logger.WithField("name", activityType.Name).Info("Creating activity type")

	if !activityType.IsValid() {
		r.logger.Warn("Invalid activity type data")
		return errors.New("invalid activity type data")
	}

	existing, err := r.GetByName(activityType.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		r.logger.WithField("name", activityType.Name).Warn("Activity type already exists")
		return errors.New("activity type already exists")
	}

	result := r.db.Create(activityType)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create activity type")
		return result.Error
	}

	return nil
}

func (r *GormActivityTypeRepository) Update(activityType *models.ActivityType) error {
	if !activityType.IsValid() {
		return errors.New("invalid activity type data")
	}

	result := r.db.Save(activityType)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update activity type")
		return result.Error
	}

	return nil
}

func (r *GormActivityTypeRepository) GetByID(id uint) (*models.ActivityType, error) {
	var activityType models.ActivityType
	result := r.db.First(&activityType, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Activity type not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get activity type by ID")
		return nil, result.Error
	}

	return &activityType, nil
}

func (r *GormActivityTypeRepository) GetByName(name string) (*models.ActivityType, error) {
	var activityType models.ActivityType
	result := r.db.Where("name = ?", name).First(&activityType)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get activity type by name")
		return nil, result.Error
	}

	return &activityType, nil
}

func (r *GormActivityTypeRepository) GetActive() ([]*models.ActivityType, error) {
	var activityTypes []*models.ActivityType
	result := r.db.
		Where("active = ?", true).
		Order("sequence ASC, name ASC").
		Find(&activityTypes)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get active activity types")
		return nil, result.Error
	}

	return activityTypes, nil
}

func (r *GormActivityTypeRepository) Deactivate(id uint) error {
	result := r.db.Model(&models.ActivityType{}).
		Where("id = ?", id).
		Update("active", false)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to deactivate activity type")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("activity type not found")
	}

	return nil
}
