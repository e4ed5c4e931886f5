package repository

import (
	"errors"

	"crm-activity-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	Create(employee *models.Employee) error
	Update(employee *models.Employee) error
	GetByID(id uint) (*models.Employee, error)
	GetByChatID(chatID int64) (*models.Employee, error)
	GetAll() ([]*models.Employee, error)
	DeleteByID(id uint) error
}

type GormEmployeeRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormEmployeeRepository(db *gorm.DB) (*GormEmployeeRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.Employee{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate employees table")
		return nil, err
	}

	logger.Info("Employee repository initialized")

	return &GormEmployeeRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormEmployeeRepository) Create(employee *models.Employee) error {
	r.logger.WithFields(logrus.Fields{
		"name":    employee.Name,
		"chat_id": employee.ChatID,
	}).Info("Creating employee")

	if !employee.IsValid() {
		r.logger.Warn("Invalid employee data")
		return errors.New("invalid employee data")
	}

	result := r.db.Create(employee)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create employee")
		return result.Error
	}

	return nil
}

func (r *GormEmployeeRepository) Update(employee *models.Employee) error {
	if !employee.IsValid() {
		return errors.New("invalid employee data")
	}

	result := r.db.Save(employee)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update employee")
		return result.Error
	}

	return nil
}

func (r *GormEmployeeRepository) GetByID(id uint) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.Preload("Company").First(&employee, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Employee not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employee by ID")
		return nil, result.Error
	}

	return &employee, nil
}

func (r *GormEmployeeRepository) GetByChatID(chatID int64) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.Preload("Company").Where("chat_id = ?", chatID).First(&employee)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("chat_id", chatID).Debug("Employee not found by chat ID")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get employee by chat ID")
		return nil, result.Error
	}

	return &employee, nil
}

func (r *GormEmployeeRepository) GetAll() ([]*models.Employee, error) {
	var employees []*models.Employee
	result := r.db.Preload("Company").Order("name ASC").Find(&employees)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get all employees")
		return nil, result.Error
	}

	return employees, nil
}

func (r *GormEmployeeRepository) DeleteByID(id uint) error {
	result := r.db.Delete(&models.Employee{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete employee")
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errors.New("employee not found")
	}

	return nil
}
