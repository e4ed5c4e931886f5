package models

import (
	"time"
)

type ActivityType struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Sequence int    `gorm:"not null;default:0;index" json:"sequence"`
	Active   bool   `gorm:"not null;default:true;index" json:"active"`

	// Color is an HTML color (hexadecimal), e.g. "#ABD6E3".
	Color string `gorm:"type:varchar(7)" json:"color"`

	DefaultDuration    *time.Duration `json:"default_duration"`
	DefaultDescription string         `json:"default_description"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ActivityType) TableName() string {
	return "activity_types"
}

// IsValid проверяет валидность данных
func (t *ActivityType) IsValid() bool {
	if t.Name == "" {
		return false
	}
	if t.DefaultDuration != nil && *t.DefaultDuration < 0 {
		return false
	}
	return true
}
