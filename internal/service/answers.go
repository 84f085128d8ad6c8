package service

import (
	"context"
	"errors"

	"stackit/qa-api/internal/model"

	"gorm.io/gorm"
)

// ErrNotQuestionOwner is returned when someone other than the question's
// author tries to accept an answer
var ErrNotQuestionOwner = errors.New("only the question owner may accept an answer")

type Answers struct {
	db *gorm.DB
}

func NewAnswers(db *gorm.DB) *Answers {
	return &Answers{db: db}
}

func (s *Answers) Create(ctx context.Context, questionID uint, content, authorID string) (*model.Answer, error) {
	answer := model.Answer{
		Content:    content,
		QuestionID: questionID,
		UserID:     authorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists bool

		err := tx.Model(model.Question{}).
			Select("count(*) > 0").
			Where("id = ?", questionID).
			Find(&exists).
			Error
		if err != nil {
			return err
		}
		if !exists {
			return gorm.ErrRecordNotFound
		}

		return tx.Create(&answer).Error
	})
	if err != nil {
		return nil, err
	}

	return &answer, nil
}

// Accept marks one answer as accepted. A question has at most one accepted
// answer, so any previously accepted one is cleared in the same transaction.
func (s *Answers) Accept(ctx context.Context, questionID, answerID uint, callerID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var question model.Question
		if err := tx.Select("id", "user_id").First(&question, questionID).Error; err != nil {
			return err
		}

		if question.UserID != callerID {
			return ErrNotQuestionOwner
		}

		var answer model.Answer
		err := tx.Select("id").
			Where("id = ? AND question_id = ?", answerID, questionID).
			First(&answer).
			Error
		if err != nil {
			return err
		}

		err = tx.Model(model.Answer{}).
			Where("question_id = ? AND is_accepted = ?", questionID, true).
			Update("is_accepted", false).
			Error
		if err != nil {
			return err
		}

		return tx.Model(model.Answer{}).
			Where("id = ?", answerID).
			Update("is_accepted", true).
			Error
	})
}
