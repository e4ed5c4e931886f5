package repository

import (
	"errors"
	"time"

	"crm-activity-bot/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BusyKey identifies one employee-day bucket in the busy-hours aggregate.
type BusyKey struct {
	EmployeeID uint
	Date       string // "2006-01-02"
}

type ActivityRepository interface {
	Create(activity *models.Activity) error
	Update(activity *models.Activity) error
	GetByID(id uint) (*models.Activity, error)
	GetByCode(code string) (*models.Activity, error)
	GetByEmployeeAndDate(employeeID uint, date time.Time) ([]*models.Activity, error)
	GetByEmployee(employeeID uint, limit int) ([]*models.Activity, error)
	GetChildren(originType string, originID uint) ([]*models.Activity, error)
	GetDayBusySums(employeeIDs []uint, minDate, maxDate time.Time) (map[BusyKey]time.Duration, error)
	GetPlannedBetween(from, to time.Time) ([]*models.Activity, error)
	MarkReminderSent(id uint) error
	ReassignParty(fromPartyID, toPartyID uint) (int64, error)
	DeleteByID(id uint) error
}

type GormActivityRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormActivityRepository(db *gorm.DB) (*GormActivityRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.Activity{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate activities table")
		return nil, err
	}

	logger.Info("Activity repository initialized")

	return &GormActivityRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormActivityRepository) Create(activity *models.Activity) error {
	r.logger.WithFields(logrus.Fields{
		"code":        activity.Code,
		"employee_id": activity.EmployeeID,
		"date":        activity.Date.Format("2006-01-02"),
	}).Info("Creating activity")

	if !activity.IsValid() {
		r.logger.WithField("code", activity.Code).Warn("Invalid activity data")
		return errors.New("invalid activity data")
	}

	result := r.db.Create(activity)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create activity")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":    activity.ID,
		"code":  activity.Code,
		"state": activity.State,
	}).Info("Activity created successfully")

	return nil
}

func (r *GormActivityRepository) Update(activity *models.Activity) error {
	r.logger.WithFields(logrus.Fields{
		"id":   activity.ID,
		"code": activity.Code,
	}).Info("Updating activity")

	if !activity.IsValid() {
		r.logger.WithField("id", activity.ID).Warn("Invalid activity data for update")
		return errors.New("invalid activity data")
	}

	result := r.db.Save(activity)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update activity")
		return result.Error
	}

	return nil
}

func (r *GormActivityRepository) GetByID(id uint) (*models.Activity, error) {
	var activity models.Activity
	result := r.db.
		Preload("ActivityType").
		Preload("Employee").
		Preload("Employee.Company").
		Preload("Party").
		First(&activity, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Activity not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get activity by ID")
		return nil, result.Error
	}

	return &activity, nil
}

func (r *GormActivityRepository) GetByCode(code string) (*models.Activity, error) {
	var activity models.Activity
	result := r.db.
		Preload("ActivityType").
		Preload("Employee").
		Preload("Employee.Company").
		Preload("Party").
		Where("code = ?", code).
		First(&activity)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("code", code).Debug("Activity not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get activity by code")
		return nil, result.Error
	}

	return &activity, nil
}

func (r *GormActivityRepository) GetByEmployeeAndDate(employeeID uint, date time.Time) ([]*models.Activity, error) {
	var activities []*models.Activity
	result := r.db.
		Preload("ActivityType").
		Preload("Employee").
		Preload("Party").
		// The sqlite driver stores dates as full RFC3339 timestamps, so
		// the comparison has to go through date() on both sides.
		Where("employee_id = ? AND date(date) = ?", employeeID, date.Format("2006-01-02")).
		Order("dtstart DESC, subject ASC, id DESC").
		Find(&activities)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get activities by employee and date")
		return nil, result.Error
	}

	return activities, nil
}

func (r *GormActivityRepository) GetByEmployee(employeeID uint, limit int) ([]*models.Activity, error) {
	var activities []*models.Activity

	query := r.db.
		Preload("ActivityType").
		Preload("Employee").
		Preload("Party").
		Where("employee_id = ?", employeeID).
		Order("dtstart DESC, subject ASC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	result := query.Find(&activities)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get activities by employee")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"employee_id": employeeID,
		"count":       len(activities),
		"limit":       limit,
	}).Debug("Retrieved activities by employee")

	return activities, nil
}

func (r *GormActivityRepository) GetChildren(originType string, originID uint) ([]*models.Activity, error) {
	var activities []*models.Activity
	result := r.db.
		Where("origin_type = ? AND origin_id = ?", originType, originID).
		Find(&activities)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get child activities")
		return nil, result.Error
	}

	return activities, nil
}

// GetDayBusySums aggregates the scheduled duration per employee per day
// over the given date range with a single grouped query. Activities
// without a duration contribute nothing.
func (r *GormActivityRepository) GetDayBusySums(employeeIDs []uint, minDate, maxDate time.Time) (map[BusyKey]time.Duration, error) {
	var rows []struct {
		EmployeeID uint
		Date       string
		Total      int64
	}

	// Stored dates are RFC3339 timestamps; date() reduces them to the
	// "2006-01-02" form the parameters and the bucket keys use.
	result := r.db.Model(&models.Activity{}).
		Select("employee_id, date(date) AS date, COALESCE(SUM(duration), 0) AS total").
		Where("employee_id IN ? AND date(date) BETWEEN ? AND ?",
			employeeIDs,
			minDate.Format("2006-01-02"),
			maxDate.Format("2006-01-02")).
		Group("employee_id, date(date)").
		Scan(&rows)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to aggregate busy hours")
		return nil, result.Error
	}

	sums := make(map[BusyKey]time.Duration, len(rows))
	for _, row := range rows {
		key := BusyKey{EmployeeID: row.EmployeeID, Date: row.Date}
		sums[key] = time.Duration(row.Total)
	}

	r.logger.WithFields(logrus.Fields{
		"employees": len(employeeIDs),
		"buckets":   len(sums),
	}).Debug("Aggregated day busy hours")

	return sums, nil
}

func (r *GormActivityRepository) GetPlannedBetween(from, to time.Time) ([]*models.Activity, error) {
	var activities []*models.Activity
	result := r.db.
		Preload("ActivityType").
		Preload("Employee").
		Where("state = ? AND dtstart >= ? AND dtstart < ?", models.StatePlanned, from, to).
		Order("dtstart ASC").
		Find(&activities)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get planned activities in range")
		return nil, result.Error
	}

	return activities, nil
}

func (r *GormActivityRepository) MarkReminderSent(id uint) error {
	result := r.db.Model(&models.Activity{}).
		Where("id = ?", id).
		Update("reminder_sent", true)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to mark reminder sent")
		return result.Error
	}

	return nil
}

// ReassignParty points every activity of one party at another and
// returns how many rows moved.
func (r *GormActivityRepository) ReassignParty(fromPartyID, toPartyID uint) (int64, error) {
	result := r.db.Model(&models.Activity{}).
		Where("party_id = ?", fromPartyID).
		Update("party_id", toPartyID)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to reassign activities to party")
		return 0, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"from_party_id": fromPartyID,
		"to_party_id":   toPartyID,
		"rows_affected": result.RowsAffected,
	}).Info("Activities reassigned to party")

	return result.RowsAffected, nil
}

func (r *GormActivityRepository) DeleteByID(id uint) error {
	r.logger.WithField("id", id).Info("Deleting activity by ID")

	result := r.db.Delete(&models.Activity{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete activity")
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Warn("Activity not found for deletion")
		return errors.New("activity not found")
	}

	return nil
}
