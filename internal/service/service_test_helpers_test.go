package service

import (
	"fmt"
	"strings"
	"testing"

	"stackit/qa-api/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newServiceDBForTest(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Tag{},
		&model.Answer{},
		&model.Vote{},
		&model.VerificationToken{},
	); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	u := &model.User{
		ID:           "id_" + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         model.RoleUser,
		Verified:     true,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}

	return u
}

func createTestQuestion(t *testing.T, db *gorm.DB, userID, title string, tags ...string) *model.Question {
	t.Helper()

	tagRows := make([]model.Tag, 0, len(tags))
	for _, name := range tags {
		var tag model.Tag
		err := db.Where(model.Tag{Name: name}).FirstOrCreate(&tag).Error
		if err != nil {
			t.Fatalf("upsert tag %s: %v", name, err)
		}
		tagRows = append(tagRows, tag)
	}

	q := &model.Question{
		Title:   title,
		Content: "content of " + title,
		UserID:  userID,
		Tags:    tagRows,
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("create question %s: %v", title, err)
	}

	return q
}

func questionVotes(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()

	var q model.Question
	if err := db.First(&q, id).Error; err != nil {
		t.Fatalf("load question %d: %v", id, err)
	}

	return q.Votes
}
