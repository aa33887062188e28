package db

import (
	"time"

	"gorm.io/datatypes"
)

type Word struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// Setting holds one extension's option table as a JSON object.
type Setting struct {
	ID        uint           `gorm:"primaryKey"`
	Extension string         `gorm:"size:64;uniqueIndex;not null"`
	Options   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}
