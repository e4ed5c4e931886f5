package models

import (
	"time"
)

type Employee struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	CompanyID uint   `gorm:"not null;index" json:"company_id"`

	// ChatID binds the employee to a Telegram account.
	ChatID int64 `gorm:"uniqueIndex" json:"chat_id"`

	// Color is the HTML color used for this employee's calendar events.
	Color string `gorm:"type:varchar(7)" json:"color"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Company Company `gorm:"foreignKey:CompanyID" json:"company"`
}

func (Employee) TableName() string {
	return "employees"
}

// IsValid проверяет валидность данных
func (e *Employee) IsValid() bool {
	if e.Name == "" {
		return false
	}
	if e.CompanyID == 0 {
		return false
	}
	return true
}
