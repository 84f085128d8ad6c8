package service

import (
	"context"
	"errors"
	"testing"

	"stackit/qa-api/internal/model"

	"gorm.io/gorm"
)

func TestAcceptAnswerIsOwnerOnly(t *testing.T) {
	db := newServiceDBForTest(t)
	answers := NewAnswers(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	responder := createTestUser(t, db, "responder")
	q := createTestQuestion(t, db, owner.ID, "Accept me")

	ans, err := answers.Create(ctx, q.ID, "the answer", responder.ID)
	if err != nil {
		t.Fatalf("create answer: %v", err)
	}

	err = answers.Accept(ctx, q.ID, ans.ID, responder.ID)
	if !errors.Is(err, ErrNotQuestionOwner) {
		t.Fatalf("non-owner accept: want ErrNotQuestionOwner, got %v", err)
	}

	if err := answers.Accept(ctx, q.ID, ans.ID, owner.ID); err != nil {
		t.Fatalf("owner accept: %v", err)
	}

	var loaded model.Answer
	if err := db.First(&loaded, ans.ID).Error; err != nil {
		t.Fatalf("load answer: %v", err)
	}
	if !loaded.IsAccepted {
		t.Fatal("answer not marked accepted")
	}
}

func TestAcceptAnswerReplacesPreviousAccepted(t *testing.T) {
	db := newServiceDBForTest(t)
	answers := NewAnswers(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	responder := createTestUser(t, db, "responder")
	q := createTestQuestion(t, db, owner.ID, "Pick one")

	first, err := answers.Create(ctx, q.ID, "first", responder.ID)
	if err != nil {
		t.Fatalf("create first answer: %v", err)
	}
	second, err := answers.Create(ctx, q.ID, "second", responder.ID)
	if err != nil {
		t.Fatalf("create second answer: %v", err)
	}

	if err := answers.Accept(ctx, q.ID, first.ID, owner.ID); err != nil {
		t.Fatalf("accept first: %v", err)
	}
	if err := answers.Accept(ctx, q.ID, second.ID, owner.ID); err != nil {
		t.Fatalf("accept second: %v", err)
	}

	var accepted []model.Answer
	err = db.Where("question_id = ? AND is_accepted = ?", q.ID, true).Find(&accepted).Error
	if err != nil {
		t.Fatalf("load accepted answers: %v", err)
	}
	if len(accepted) != 1 || accepted[0].ID != second.ID {
		t.Fatalf("want only answer %d accepted, got %+v", second.ID, accepted)
	}
}

func TestCreateAnswerUnknownQuestion(t *testing.T) {
	db := newServiceDBForTest(t)
	answers := NewAnswers(db)

	responder := createTestUser(t, db, "responder")

	_, err := answers.Create(context.Background(), 4040, "into the void", responder.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}

func TestAcceptAnswerFromOtherQuestion(t *testing.T) {
	db := newServiceDBForTest(t)
	answers := NewAnswers(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner")
	responder := createTestUser(t, db, "responder")

	q1 := createTestQuestion(t, db, owner.ID, "First question")
	q2 := createTestQuestion(t, db, owner.ID, "Second question")

	ans, err := answers.Create(ctx, q2.ID, "answer to q2", responder.ID)
	if err != nil {
		t.Fatalf("create answer: %v", err)
	}

	err = answers.Accept(ctx, q1.ID, ans.ID, owner.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("cross-question accept: want ErrRecordNotFound, got %v", err)
	}
}
