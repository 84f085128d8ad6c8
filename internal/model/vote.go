package model

import "time"

const (
	VoteUp   = "up"
	VoteDown = "down"
)

// Vote targets exactly one of a question or an answer. The composite
// unique indexes are the one-vote-per-user guard: the existence check in
// the vote service is only a fast path, two concurrent casts racing past
// it still collide here
type Vote struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"not null;uniqueIndex:idx_votes_user_question;uniqueIndex:idx_votes_user_answer" json:"-"`
	QuestionID *uint     `gorm:"uniqueIndex:idx_votes_user_question" json:"question_id,omitempty"`
	AnswerID   *uint     `gorm:"uniqueIndex:idx_votes_user_answer" json:"answer_id,omitempty"`
	VoteType   string    `gorm:"not null" json:"vote_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidVoteType reports whether t is one of the two accepted vote types.
func ValidVoteType(t string) bool {
	return t == VoteUp || t == VoteDown
}
