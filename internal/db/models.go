package db

import (
	"time"

	"gorm.io/datatypes"
)

type Word struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"size:20;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
}

// Event is one entry of the session activity log. Sessions themselves are
// never stored; the log only outlives them.
type Event struct {
	ID        uint           `gorm:"primaryKey"`
	Session   string         `gorm:"size:10;index;not null"`
	Member    string         `gorm:"size:10;index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
