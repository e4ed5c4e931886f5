package repository

import (
	"errors"

	"crm-activity-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNoActivitySequence is returned when an activity code is requested
// but the configuration has no numbering sequence attached.
var ErrNoActivitySequence = errors.New("no activity numbering sequence configured")

type ConfigurationRepository interface {
	Get() (*models.ActivityConfiguration, error)
	SetSequence(sequence *models.Sequence) error
	NextActivityCode() (string, error)
	GetReferences() ([]*models.ActivityReference, error)
	AddReference(model string) error
}

type GormConfigurationRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormConfigurationRepository(db *gorm.DB) (*GormConfigurationRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.Sequence{}, &models.ActivityConfiguration{}, &models.ActivityReference{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate configuration tables")
		return nil, err
	}

	// The configuration is a singleton row.
	cfg := models.ActivityConfiguration{ID: 1}
	if err := db.FirstOrCreate(&cfg, models.ActivityConfiguration{ID: 1}).Error; err != nil {
		logger.WithError(err).Error("Failed to ensure configuration row")
		return nil, err
	}

	logger.Info("Configuration repository initialized")

	return &GormConfigurationRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormConfigurationRepository) Get() (*models.ActivityConfiguration, error) {
	var cfg models.ActivityConfiguration
	result := r.db.Preload("ActivitySequence").First(&cfg, 1)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get configuration")
		return nil, result.Error
	}

	return &cfg, nil
}

// SetSequence creates the sequence and attaches it to the configuration.
func (r *GormConfigurationRepository) SetSequence(sequence *models.Sequence) error {
	r.logger.WithFields(logrus.Fields{
		"prefix":  sequence.Prefix,
		"padding": sequence.Padding,
	}).Info("Configuring activity sequence")

	return r.db.Transaction(func(tx *gorm.DB) error {
		if sequence.ID == 0 {
			if err := tx.Create(sequence).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.ActivityConfiguration{}).
			Where("id = ?", 1).
			Update("activity_sequence_id", sequence.ID).Error
	})
}

// NextActivityCode draws the next code from the configured sequence,
// advancing the counter in the same transaction.
func (r *GormConfigurationRepository) NextActivityCode() (string, error) {
	var code string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var cfg models.ActivityConfiguration
		if err := tx.Preload("ActivitySequence").First(&cfg, 1).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActivitySequence
			}
			return err
		}
		if cfg.ActivitySequence == nil {
			return ErrNoActivitySequence
		}

		seq := cfg.ActivitySequence
		code = seq.Format(seq.Next)
		seq.Next++
		return tx.Save(seq).Error
	})
	if err != nil {
		if !errors.Is(err, ErrNoActivitySequence) {
			r.logger.WithError(err).Error("Failed to get next activity code")
		}
		return "", err
	}

	r.logger.WithField("code", code).Debug("Generated activity code")

	return code, nil
}

func (r *GormConfigurationRepository) GetReferences() ([]*models.ActivityReference, error) {
	var references []*models.ActivityReference
	result := r.db.Order("model ASC").Find(&references)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get activity references")
		return nil, result.Error
	}

	return references, nil
}

func (r *GormConfigurationRepository) AddReference(model string) error {
	if model == "" {
		return errors.New("reference model is required")
	}

	result := r.db.Where(models.ActivityReference{Model: model}).
		FirstOrCreate(&models.ActivityReference{Model: model})
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to add activity reference")
		return result.Error
	}

	return nil
}
