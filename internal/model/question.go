// Package model defines database models
package model

import "time"

type Question struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"not null" json:"content"`
	UserID  string `gorm:"index;not null" json:"-"`

	// Votes is a cached aggregate. The vote rows are authoritative and
	// this field is recomputed from them on every cast, never incremented
	Votes int `gorm:"default:0" json:"votes"`
	Views int `gorm:"default:0" json:"views"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author   User     `gorm:"foreignKey:UserID" json:"-"`
	Tags     []Tag    `gorm:"many2many:question_tags;constraint:OnDelete:CASCADE" json:"-"`
	Answers  []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	VoteRows []Vote   `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}
