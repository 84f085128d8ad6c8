package model

import "time"

// Tag names are stored trimmed and lowercased. The unique index makes
// tag creation idempotent across concurrent question submissions
type Tag struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
}
