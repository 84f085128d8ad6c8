package internal

import (
	"stackit/qa-api/internal/service"
	"stackit/qa-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB        *gorm.DB
	Argon     *security.ArgonHash
	Mailer    *service.Mailer
	Votes     *service.Votes
	Questions *service.Questions
	Answers   *service.Answers
}
