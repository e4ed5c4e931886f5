package models

import (
	"fmt"
	"time"
)

type Party struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Code string `gorm:"uniqueIndex;not null" json:"code"`
	Name string `gorm:"not null;index" json:"name"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Activities owned by this party. The foreign key lives on the
	// activity, so copying a party never carries its activities along.
	Activities []Activity `gorm:"foreignKey:PartyID" json:"activities,omitempty"`
}

func (Party) TableName() string {
	return "parties"
}

// RecName returns the display name: "[CODE] name" or just the name.
func (p *Party) RecName() string {
	if p.Code != "" {
		return fmt.Sprintf("[%s] %s", p.Code, p.Name)
	}
	return p.Name
}
