package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// OperatingHour is one open interval on one weekday. A menu may have several
// intervals per weekday (lunch and dinner service, for example).
type OperatingHour struct {
	ID     snowflake.ID `json:"id" gorm:"primaryKey"`
	MenuID snowflake.ID `json:"menu_id" gorm:"index:ix_operating_hours_menu;not null"`
	// Weekday follows time.Weekday: 0 is Sunday.
	Weekday   int       `json:"weekday" gorm:"not null"`
	OpensAt   string    `json:"opens_at" gorm:"not null"`
	ClosesAt  string    `json:"closes_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OperatingHour) TableName() string {
	return "operating_hours"
}
