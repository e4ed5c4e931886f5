package models

import (
	"time"
)

type Company struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"not null" json:"name"`

	// Timezone is an IANA zone name like "Europe/Madrid". Empty means the
	// company keeps everything in UTC.
	Timezone string `gorm:"type:varchar(64)" json:"timezone"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}

// Location resolves the configured timezone. A missing or unknown zone
// resolves to nil, which callers treat as an identity conversion.
func (c *Company) Location() *time.Location {
	if c == nil || c.Timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil
	}
	return loc
}
