package models

import (
	"time"
)

// ActivityReference whitelists the model names an activity resource may
// point to.
type ActivityReference struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Model     string    `gorm:"uniqueIndex;not null" json:"model"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ActivityReference) TableName() string {
	return "activity_references"
}
