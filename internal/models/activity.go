package models

import (
	"fmt"
	"time"
)

type Activity struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Code   string `gorm:"uniqueIndex;not null" json:"code"`
	State  string `gorm:"type:varchar(20);not null;default:'planned';index" json:"state"`
	Subject string `json:"subject"`

	ActivityTypeID uint `gorm:"not null;index" json:"activity_type_id"`
	EmployeeID     uint `gorm:"not null;index" json:"employee_id"`
	PartyID        *uint `gorm:"index" json:"party_id"`

	// Resource and Origin are polymorphic references stored as a
	// model-name tag plus a row id. Origin points at the activity a
	// split child was created from.
	ResourceType string `gorm:"type:varchar(64)" json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
	OriginType   string `gorm:"type:varchar(64);index" json:"origin_type"`
	OriginID     uint   `gorm:"index" json:"origin_id"`

	// Date and Time are company-local; DtStart/DtEnd are UTC and derived.
	// A nil Time marks a full-day activity.
	Date     time.Time      `gorm:"type:date;not null;index" json:"date"`
	Time     *time.Time     `json:"time"`
	Duration *time.Duration `json:"duration"`
	DtStart  *time.Time     `gorm:"column:dtstart;index" json:"dtstart"`
	DtEnd    *time.Time     `gorm:"column:dtend" json:"dtend"`

	Description string `json:"description"`
	Location    string `json:"location"`

	ReminderSent bool `gorm:"not null;default:false" json:"reminder_sent"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	ActivityType ActivityType `gorm:"foreignKey:ActivityTypeID" json:"activity_type"`
	Employee     Employee     `gorm:"foreignKey:EmployeeID" json:"employee"`
	Party        *Party       `gorm:"foreignKey:PartyID" json:"party,omitempty"`
}

func (Activity) TableName() string {
	return "activities"
}

// Activity states
const (
	StatePlanned   = "planned"
	StateDone      = "done"
	StateCancelled = "cancelled"
)

// ResourceModelParty is the resource tag that resolves directly to a party.
const ResourceModelParty = "party"

// RecName returns the display name: "[CODE] subject" or just the code.
func (a *Activity) RecName() string {
	if a.Subject != "" {
		return fmt.Sprintf("[%s] %s", a.Code, a.Subject)
	}
	return a.Code
}

// IsFullDay reports whether the activity has no specific time of day.
func (a *Activity) IsFullDay() bool {
	return a.Time == nil
}

// HasResource reports whether the polymorphic resource reference is set.
func (a *Activity) HasResource() bool {
	return a.ResourceType != "" && a.ResourceID != 0
}

// IsValid проверяет валидность данных
func (a *Activity) IsValid() bool {
	if a.ActivityTypeID == 0 {
		return false
	}
	if a.EmployeeID == 0 {
		return false
	}
	if a.Date.IsZero() {
		return false
	}
	if a.State != StatePlanned && a.State != StateDone && a.State != StateCancelled {
		return false
	}
	if a.Duration != nil && *a.Duration < 0 {
		return false
	}
	return true
}
