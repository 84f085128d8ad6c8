// Package service contains the domain logic behind the HTTP handlers
package service

import (
	"context"
	"errors"
	"time"

	"stackit/qa-api/internal/model"

	"gorm.io/gorm"
)

// ErrAlreadyVoted is returned when a user tries to vote twice on the same
// target. Votes are immutable once cast, there is no change-of-vote path
var ErrAlreadyVoted = errors.New("already voted")

// Votes is the vote aggregator. Every cast runs as a single transaction:
// insert the vote row, recompute the net count from the full vote set and
// persist it onto the cached counter. Recomputing instead of incrementing
// means a previously failed or skipped aggregation can't leave the counter
// drifted forever.
type Votes struct {
	db *gorm.DB
}

func NewVotes(db *gorm.DB) *Votes {
	return &Votes{db: db}
}

// CastQuestionVote records userID's vote on a question and returns the
// recomputed net vote count.
func (s *Votes) CastQuestionVote(ctx context.Context, questionID uint, userID, voteType string) (net int, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
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

		// Fast path only. The unique index on (user_id, question_id) is
		// what actually holds under concurrent casts
		var voted bool
		err = tx.Model(model.Vote{}).
			Select("count(*) > 0").
			Where("user_id = ? AND question_id = ?", userID, questionID).
			Find(&voted).
			Error
		if err != nil {
			return err
		}
		if voted {
			return ErrAlreadyVoted
		}

		err = tx.Create(&model.Vote{
			UserID:     userID,
			QuestionID: &questionID,
			VoteType:   voteType,
		}).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyVoted
			}
			return err
		}

		net, err = tally(tx, "question_id", questionID)
		if err != nil {
			return err
		}

		return tx.Model(model.Question{}).
			Where("id = ?", questionID).
			Updates(map[string]any{
				"votes":      net,
				"updated_at": time.Now(),
			}).Error
	})

	return net, err
}

// CastAnswerVote is CastQuestionVote over an answer.
func (s *Votes) CastAnswerVote(ctx context.Context, answerID uint, userID, voteType string) (net int, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists bool

		err := tx.Model(model.Answer{}).
			Select("count(*) > 0").
			Where("id = ?", answerID).
			Find(&exists).
			Error
		if err != nil {
			return err
		}
		if !exists {
			return gorm.ErrRecordNotFound
		}

		var voted bool
		err = tx.Model(model.Vote{}).
			Select("count(*) > 0").
			Where("user_id = ? AND answer_id = ?", userID, answerID).
			Find(&voted).
			Error
		if err != nil {
			return err
		}
		if voted {
			return ErrAlreadyVoted
		}

		err = tx.Create(&model.Vote{
			UserID:   userID,
			AnswerID: &answerID,
			VoteType: voteType,
		}).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyVoted
			}
			return err
		}

		net, err = tally(tx, "answer_id", answerID)
		if err != nil {
			return err
		}

		return tx.Model(model.Answer{}).
			Where("id = ?", answerID).
			Updates(map[string]any{
				"votes":      net,
				"updated_at": time.Now(),
			}).Error
	})

	return net, err
}

// GetUserVote returns the vote type the user cast on a question, or the
// empty string when they haven't voted. Pure lookup, no side effects.
func (s *Votes) GetUserVote(ctx context.Context, questionID uint, userID string) (string, error) {
	var vote model.Vote

	err := s.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Limit(1).
		Find(&vote).
		Error
	if err != nil {
		return "", err
	}

	return vote.VoteType, nil
}

// tally recomputes count(up) - count(down) over the vote rows for a single
// question or answer
func tally(tx *gorm.DB, column string, id uint) (int, error) {
	var net int

	err := tx.Model(model.Vote{}).
		Select("coalesce(sum(case when vote_type = ? then 1 else -1 end), 0)", model.VoteUp).
		Where(column+" = ?", id).
		Scan(&net).
		Error

	return net, err
}
