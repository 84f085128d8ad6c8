package db

import (
	"stackit/qa-api/internal/model"
	"stackit/qa-api/pkg/security"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var demoTags = []string{"react", "javascript", "typescript", "node.js", "python", "database", "authentication", "performance", "css", "api"}

var demoQuestions = []struct {
	Title   string
	Content string
	Tags    []string
}{
	{
		Title:   "How to implement authentication in React with JWT tokens?",
		Content: "I'm building a React application and need to implement user authentication using JWT tokens. What's the best practice for storing tokens and managing user state?",
		Tags:    []string{"react", "javascript", "authentication"},
	},
	{
		Title:   "TypeScript generics with React components - best practices",
		Content: "I'm trying to create reusable React components with TypeScript generics but running into some issues with type inference...",
		Tags:    []string{"typescript", "react"},
	},
	{
		Title:   "Optimizing database queries for large datasets",
		Content: "My application is dealing with millions of records and queries are becoming slow. What are some effective strategies for optimization?",
		Tags:    []string{"database", "performance"},
	},
}

// Seed inserts the demo users, tags and questions. Every insert is
// idempotent so running it against an already seeded database is a no-op
func Seed(db *gorm.DB, argon *security.ArgonHash) error {
	hash, err := argon.GenerateFromPassword("demo123")
	if err != nil {
		return err
	}

	demoUsers := []model.User{
		{Username: "demo", Email: "demo@stackit.com", PasswordHash: hash, Role: model.RoleUser, Verified: true},
		{Username: "johndoe", Email: "john@example.com", PasswordHash: hash, Role: model.RoleUser, Verified: true},
	}

	for i := range demoUsers {
		id, err := gonanoid.Generate(security.IDCharset, 16)
		if err != nil {
			return err
		}
		demoUsers[i].ID = id

		err = db.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&demoUsers[i]).
			Error
		if err != nil {
			return err
		}
	}

	for _, name := range demoTags {
		err := db.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Tag{Name: name}).
			Error
		if err != nil {
			return err
		}
	}

	var owner model.User
	if err := db.Where("username = ?", "demo").First(&owner).Error; err != nil {
		return err
	}

	for _, q := range demoQuestions {
		var exists bool

		err := db.Model(model.Question{}).
			Select("count(*) > 0").
			Where("title = ?", q.Title).
			Find(&exists).
			Error
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		var tags []model.Tag
		if err := db.Where("name IN ?", q.Tags).Find(&tags).Error; err != nil {
			return err
		}

		err = db.Create(&model.Question{
			Title:   q.Title,
			Content: q.Content,
			UserID:  owner.ID,
			Tags:    tags,
		}).Error
		if err != nil {
			return err
		}
	}

	zap.L().Info("Demo data seeded")
	return nil
}
