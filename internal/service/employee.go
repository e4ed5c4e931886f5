package service

import (
	"errors"
	"fmt"

	"crm-activity-bot/internal/models"
	"crm-activity-bot/internal/repository"
	"crm-activity-bot/pkg/colorutil"

	"github.com/sirupsen/logrus"
)

type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
	companyRepo  repository.CompanyRepository
	logger       *logrus.Logger
}

func NewEmployeeService(
	employeeRepo repository.EmployeeRepository,
	companyRepo repository.CompanyRepository,
) *EmployeeService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &EmployeeService{
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
		logger:       logger,
	}
}

// Register binds a Telegram chat to an employee record. When no company
// is given the single configured company is used.
func (s *EmployeeService) Register(chatID int64, name string, companyID uint) (*models.Employee, error) {
	existing, err := s.employeeRepo.GetByChatID(chatID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if companyID == 0 {
		companies, err := s.companyRepo.GetAll()
		if err != nil {
			return nil, err
		}
		if len(companies) == 0 {
			return nil, errors.New("no company configured, run the admin tool first")
		}
		companyID = companies[0].ID
	}

	employee := &models.Employee{
		Name:      name,
		ChatID:    chatID,
		CompanyID: companyID,
	}
	if err := s.employeeRepo.Create(employee); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"id":      employee.ID,
		"chat_id": chatID,
	}).Info("Employee registered")

	return s.employeeRepo.GetByID(employee.ID)
}

func (s *EmployeeService) GetByChatID(chatID int64) (*models.Employee, error) {
	return s.employeeRepo.GetByChatID(chatID)
}

func (s *EmployeeService) GetAll() ([]*models.Employee, error) {
	return s.employeeRepo.GetAll()
}

// SetColor updates the calendar color of the employee bound to chatID.
func (s *EmployeeService) SetColor(chatID int64, color string) (*models.Employee, error) {
	if !colorutil.Valid(color) {
		return nil, fmt.Errorf("%q is not a valid #RRGGBB color", color)
	}

	employee, err := s.employeeRepo.GetByChatID(chatID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, errors.New("employee not registered")
	}

	employee.Color = color
	if err := s.employeeRepo.Update(employee); err != nil {
		return nil, err
	}

	return employee, nil
}
