package repository

import (
	"errors"

	"crm-activity-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(company *models.Company) error
	Update(company *models.Company) error
	GetByID(id uint) (*models.Company, error)
	GetAll() ([]*models.Company, error)
}

type GormCompanyRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormCompanyRepository(db *gorm.DB) (*GormCompanyRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.Company{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate companies table")
		return nil, err
	}

	logger.Info("Company repository initialized")

	return &GormCompanyRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormCompanyRepository) Create(company *models.Company) error {
	r.logger.WithFields(logrus.Fields{
		"name":     company.Name,
		"timezone": company.Timezone,
	}).Info("Creating company")

	if company.Name == "" {
		return errors.New("company name is required")
	}

	result := r.db.Create(company)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create company")
		return result.Error
	}

	return nil
}

func (r *GormCompanyRepository) Update(company *models.Company) error {
	result := r.db.Save(company)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update company")
		return result.Error
	}

	return nil
}

func (r *GormCompanyRepository) GetByID(id uint) (*models.Company, error) {
	var company models.Company
	result := r.db.First(&company, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Company not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get company by ID")
		return nil, result.Error
	}

	return &company, nil
}

func (r *GormCompanyRepository) GetAll() ([]*models.Company, error) {
	var companies []*models.Company
	result := r.db.Order("name ASC").Find(&companies)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get all companies")
		return nil, result.Error
	}

	return companies, nil
}
