package model

import "time"

type Answer struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Content    string `gorm:"not null" json:"content"`
	QuestionID uint   `gorm:"index;not null" json:"question_id"`
	UserID     string `gorm:"index;not null" json:"-"`

	// Same cached-aggregate rule as Question.Votes
	Votes      int  `gorm:"default:0" json:"votes"`
	IsAccepted bool `gorm:"default:false" json:"is_accepted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author   User   `gorm:"foreignKey:UserID" json:"-"`
	VoteRows []Vote `gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE" json:"-"`
}
