package models

import (
	"fmt"
	"time"
)

// Sequence generates the unique activity codes, e.g. "ACT00042".
type Sequence struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	Prefix  string `gorm:"type:varchar(16)" json:"prefix"`
	Padding int    `gorm:"not null;default:5" json:"padding"`
	Next    int64  `gorm:"not null;default:1" json:"next"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Sequence) TableName() string {
	return "sequences"
}

// Format renders a sequence number without advancing the counter.
func (s *Sequence) Format(n int64) string {
	return fmt.Sprintf("%s%0*d", s.Prefix, s.Padding, n)
}

// ActivityConfiguration is the singleton row holding module settings.
// An unset sequence makes activity creation fail with a configuration
// error.
type ActivityConfiguration struct {
	ID                 uint  `gorm:"primarykey" json:"id"`
	ActivitySequenceID *uint `json:"activity_sequence_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	ActivitySequence *Sequence `gorm:"foreignKey:ActivitySequenceID" json:"activity_sequence,omitempty"`
}

func (ActivityConfiguration) TableName() string {
	return "activity_configurations"
}
