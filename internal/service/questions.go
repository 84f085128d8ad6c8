package service

import (
	"context"
	"strings"
	"time"

	"stackit/qa-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Questions builds the filtered, paginated question listings and owns
// question creation.
type Questions struct {
	db *gorm.DB
}

func NewQuestions(db *gorm.DB) *Questions {
	return &Questions{db: db}
}

type ListParams struct {
	Sort  string
	Tags  []string
	Page  int
	Limit int

	// UserID is empty for anonymous requests. When set, every returned
	// question carries the caller's vote
	UserID string
}

type QuestionSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Votes     int       `json:"votes"`
	Views     int       `json:"views"`
	Author    string    `json:"author"`
	Answers   int       `json:"answers"`
	Tags      []string  `json:"tags"`
	UserVote  string    `json:"userVote,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Pagination struct {
	CurrentPage    int   `json:"currentPage"`
	TotalPages     int   `json:"totalPages"`
	TotalQuestions int64 `json:"totalQuestions"`
	HasNext        bool  `json:"hasNext"`
	HasPrev        bool  `json:"hasPrev"`
}

// List returns one page of the filtered question set plus the pagination
// envelope. Two queries on purpose: the page query groups by question id
// and the tag join fans rows out, so deriving the total from it would be
// wrong. The count query repeats the filter predicate over distinct ids.
func (s *Questions) List(ctx context.Context, p ListParams) ([]QuestionSummary, Pagination, error) {
	p = normalizeListParams(p)

	var order string
	switch p.Sort {
	case "popular", "votes":
		order = "questions.votes DESC, questions.id ASC"
	default:
		// Unknown sorts fall back to newest. The id tie-break keeps
		// pagination stable when timestamps collide
		order = "questions.created_at DESC, questions.id ASC"
	}

	var total int64
	err := s.filtered(ctx, p.Tags).
		Distinct("questions.id").
		Count(&total).
		Error
	if err != nil {
		return nil, Pagination{}, err
	}

	totalPages := calcTotalPages(total, p.Limit)
	pagination := Pagination{
		CurrentPage:    p.Page,
		TotalPages:     totalPages,
		TotalQuestions: total,
		HasNext:        p.Page < totalPages,
		HasPrev:        p.Page > 1,
	}

	type pageRow struct {
		ID        uint
		Title     string
		Content   string
		Votes     int
		Views     int
		Author    string
		Answers   int
		CreatedAt time.Time
	}

	var rows []pageRow
	err = s.filtered(ctx, p.Tags).
		Select("questions.id, questions.title, questions.content, questions.votes, questions.views, questions.created_at, users.username AS author, count(DISTINCT answers.id) AS answers").
		Joins("LEFT JOIN users ON users.id = questions.user_id").
		Joins("LEFT JOIN answers ON answers.question_id = questions.id").
		Group("questions.id, questions.title, questions.content, questions.votes, questions.views, questions.created_at, users.username").
		Order(order).
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Scan(&rows).
		Error
	if err != nil {
		return nil, Pagination{}, err
	}

	ids := make([]uint, len(rows))
	items := make([]QuestionSummary, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
		items[i] = QuestionSummary{
			ID:        r.ID,
			Title:     r.Title,
			Content:   r.Content,
			Votes:     r.Votes,
			Views:     r.Views,
			Author:    r.Author,
			Answers:   r.Answers,
			Tags:      []string{},
			CreatedAt: r.CreatedAt,
		}
	}

	if len(ids) == 0 {
		return items, pagination, nil
	}

	tagsByID, err := s.tagsFor(ctx, ids)
	if err != nil {
		return nil, Pagination{}, err
	}
	for i := range items {
		if t, ok := tagsByID[items[i].ID]; ok {
			items[i].Tags = t
		}
	}

	if p.UserID != "" {
		// Restricted to the page's ids so the lookup cost stays bounded
		// by the page size, not the votes table
		votesByID, err := s.votesFor(ctx, ids, p.UserID)
		if err != nil {
			return nil, Pagination{}, err
		}
		for i := range items {
			items[i].UserVote = votesByID[items[i].ID]
		}
	}

	return items, pagination, nil
}

// filtered is the shared filter predicate of the page and count queries.
// Tag matching is exact (OR across the supplied tags), not substring
func (s *Questions) filtered(ctx context.Context, tags []string) *gorm.DB {
	q := s.db.WithContext(ctx).Model(model.Question{})

	if len(tags) > 0 {
		q = q.
			Joins("JOIN question_tags ON question_tags.question_id = questions.id").
			Joins("JOIN tags ON tags.id = question_tags.tag_id").
			Where("tags.name IN ?", tags)
	}

	return q
}

func (s *Questions) tagsFor(ctx context.Context, ids []uint) (map[uint][]string, error) {
	type tagRow struct {
		QuestionID uint
		Name       string
	}

	var rows []tagRow
	err := s.db.WithContext(ctx).
		Table("question_tags").
		Select("question_tags.question_id, tags.name").
		Joins("JOIN tags ON tags.id = question_tags.tag_id").
		Where("question_tags.question_id IN ?", ids).
		Order("tags.name ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint][]string, len(ids))
	for _, r := range rows {
		out[r.QuestionID] = append(out[r.QuestionID], r.Name)
	}

	return out, nil
}

func (s *Questions) votesFor(ctx context.Context, ids []uint, userID string) (map[uint]string, error) {
	var rows []model.Vote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND question_id IN ?", userID, ids).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint]string, len(rows))
	for _, r := range rows {
		if r.QuestionID != nil {
			out[*r.QuestionID] = r.VoteType
		}
	}

	return out, nil
}

// Create inserts the question, upserts its normalized tags and links them,
// all in one transaction. Tags must already be validated and normalized.
func (s *Questions) Create(ctx context.Context, title, content string, tags []string, authorID string) (*model.Question, error) {
	var question model.Question

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tagRows := make([]model.Tag, 0, len(tags))
		for _, name := range tags {
			// DoNothing keeps tag creation idempotent under the unique
			// name index
			err := tx.
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&model.Tag{Name: name}).
				Error
			if err != nil {
				return err
			}

			var tag model.Tag
			if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
				return err
			}
			tagRows = append(tagRows, tag)
		}

		question = model.Question{
			Title:   title,
			Content: content,
			UserID:  authorID,
			Tags:    tagRows,
		}

		return tx.Create(&question).Error
	})
	if err != nil {
		return nil, err
	}

	return &question, nil
}

// QuestionDetail is the single-question view with its answers.
type QuestionDetail struct {
	QuestionSummary
	UpdatedAt time.Time      `json:"updated_at"`
	AnswerSet []AnswerDetail `json:"answerSet"`
}

type AnswerDetail struct {
	ID         uint      `json:"id"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	Votes      int       `json:"votes"`
	IsAccepted bool      `json:"is_accepted"`
	UserVote   string    `json:"userVote,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Get returns one question with author, tags and answers and bumps its
// view counter. userID may be empty.
func (s *Questions) Get(ctx context.Context, id uint, userID string) (*QuestionDetail, error) {
	var question model.Question
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.created_at ASC") }).
		Preload("Answers.Author").
		First(&question, id).
		Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(model.Question{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).
		Error
	if err != nil {
		return nil, err
	}

	detail := &QuestionDetail{
		QuestionSummary: QuestionSummary{
			ID:        question.ID,
			Title:     question.Title,
			Content:   question.Content,
			Votes:     question.Votes,
			Views:     question.Views + 1,
			Author:    question.Author.Username,
			Answers:   len(question.Answers),
			Tags:      make([]string, 0, len(question.Tags)),
			CreatedAt: question.CreatedAt,
		},
		UpdatedAt: question.UpdatedAt,
		AnswerSet: make([]AnswerDetail, 0, len(question.Answers)),
	}

	for _, t := range question.Tags {
		detail.Tags = append(detail.Tags, t.Name)
	}

	answerVotes := map[uint]string{}
	if userID != "" {
		detail.UserVote, err = NewVotes(s.db).GetUserVote(ctx, id, userID)
		if err != nil {
			return nil, err
		}

		if len(question.Answers) > 0 {
			answerIDs := make([]uint, len(question.Answers))
			for i, a := range question.Answers {
				answerIDs[i] = a.ID
			}

			var rows []model.Vote
			err = s.db.WithContext(ctx).
				Where("user_id = ? AND answer_id IN ?", userID, answerIDs).
				Find(&rows).
				Error
			if err != nil {
				return nil, err
			}
			for _, r := range rows {
				if r.AnswerID != nil {
					answerVotes[*r.AnswerID] = r.VoteType
				}
			}
		}
	}

	for _, a := range question.Answers {
		detail.AnswerSet = append(detail.AnswerSet, AnswerDetail{
			ID:         a.ID,
			Content:    a.Content,
			Author:     a.Author.Username,
			Votes:      a.Votes,
			IsAccepted: a.IsAccepted,
			UserVote:   answerVotes[a.ID],
			CreatedAt:  a.CreatedAt,
		})
	}

	return detail, nil
}

// Latest returns stubs of the n newest questions for the notification
// feed.
func (s *Questions) Latest(ctx context.Context, n int) ([]QuestionSummary, error) {
	type stubRow struct {
		ID        uint
		Title     string
		Author    string
		CreatedAt time.Time
	}

	var rows []stubRow
	err := s.db.WithContext(ctx).
		Model(model.Question{}).
		Select("questions.id, questions.title, users.username AS author, questions.created_at").
		Joins("LEFT JOIN users ON users.id = questions.user_id").
		Order("questions.created_at DESC, questions.id ASC").
		Limit(n).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	out := make([]QuestionSummary, len(rows))
	for i, r := range rows {
		out[i] = QuestionSummary{
			ID:        r.ID,
			Title:     r.Title,
			Author:    r.Author,
			Tags:      []string{},
			CreatedAt: r.CreatedAt,
		}
	}

	return out, nil
}

func normalizeListParams(p ListParams) ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}

	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	p.Tags = tags

	return p
}

func calcTotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}

	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}

	return int(pages)
}
