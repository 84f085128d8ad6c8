package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stackit/qa-api/internal"
	"stackit/qa-api/internal/model"
	"stackit/qa-api/internal/service"
	"stackit/qa-api/pkg/util"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDeps(t *testing.T) *internal.Deps {
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
	); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	return &internal.Deps{
		DB:        db,
		Votes:     service.NewVotes(db),
		Questions: service.NewQuestions(db),
		Answers:   service.NewAnswers(db),
	}
}

// newTestRouter wires the question routes with a stub auth middleware that
// trusts the X-Test-User header instead of parsing a real JWT
func newTestRouter(d *internal.Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Set("requestID", util.RandStr(10))
		if v := c.GetHeader("X-Test-User"); v != "" {
			c.Set("userID", v)
		}
		c.Next()
	})

	router.GET("/api/questions", func(c *gin.Context) { QuestionList(c, d) })
	router.POST("/api/questions", func(c *gin.Context) { QuestionCreate(c, d) })
	router.POST("/api/questions/:id/vote", func(c *gin.Context) { QuestionVote(c, d) })
	router.GET("/api/questions/:id/vote", func(c *gin.Context) { QuestionVoteFetch(c, d) })

	return router
}

func createUser(t *testing.T, d *internal.Deps, username string) *model.User {
	t.Helper()

	u := &model.User{
		ID:           "id_" + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         model.RoleUser,
		Verified:     true,
	}
	if err := d.DB.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}

	return u
}

func doJSON(t *testing.T, router *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQuestionCreateAndList(t *testing.T) {
	d := newTestDeps(t)
	router := newTestRouter(d)
	author := createUser(t, d, "author")

	w := doJSON(t, router, "POST", "/api/questions", author.ID, gin.H{
		"title":   "How does this work?",
		"content": "Please explain",
		"tags":    []string{" React ", "CSS"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: want 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		ID   uint     `json:"id"`
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if len(created.Tags) != 2 || created.Tags[0] != "react" || created.Tags[1] != "css" {
		t.Fatalf("tags not normalized: %v", created.Tags)
	}

	w = doJSON(t, router, "GET", "/api/questions?tag=react,database", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: want 200, got %d: %s", w.Code, w.Body.String())
	}

	var listed struct {
		Questions  []service.QuestionSummary `json:"questions"`
		Pagination service.Pagination        `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed.Questions) != 1 || listed.Questions[0].ID != created.ID {
		t.Fatalf("unexpected listing: %+v", listed.Questions)
	}
	if listed.Pagination.TotalQuestions != 1 || listed.Pagination.TotalPages != 1 {
		t.Fatalf("unexpected pagination: %+v", listed.Pagination)
	}
}

func TestQuestionCreateValidation(t *testing.T) {
	d := newTestDeps(t)
	router := newTestRouter(d)
	author := createUser(t, d, "author")

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "empty title", body: gin.H{"title": " ", "content": "c", "tags": []string{"go"}}},
		{name: "no tags", body: gin.H{"title": "t", "content": "c", "tags": []string{}}},
		{name: "too many tags", body: gin.H{"title": "t", "content": "c", "tags": []string{"a", "b", "c", "d", "e", "f"}}},
		{name: "bad tag characters", body: gin.H{"title": "t", "content": "c", "tags": []string{"no spaces"}}},
		{name: "title too long", body: gin.H{"title": strings.Repeat("x", 201), "content": "c", "tags": []string{"go"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, "POST", "/api/questions", author.ID, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}

	var count int64
	if err := d.DB.Model(model.Question{}).Count(&count).Error; err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected submissions created %d questions", count)
	}
}

func TestQuestionVoteEndpoint(t *testing.T) {
	d := newTestDeps(t)
	router := newTestRouter(d)

	author := createUser(t, d, "author")
	voter := createUser(t, d, "voter")

	q := &model.Question{Title: "Vote on me", Content: "c", UserID: author.ID}
	if err := d.DB.Create(q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}

	w := doJSON(t, router, "POST", fmt.Sprintf("/api/questions/%d/vote", q.ID), voter.ID, gin.H{"vote_type": "sideways"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid vote_type: want 400, got %d", w.Code)
	}

	w = doJSON(t, router, "POST", fmt.Sprintf("/api/questions/%d/vote", q.ID), voter.ID, gin.H{"vote_type": "up"})
	if w.Code != http.StatusOK {
		t.Fatalf("vote: want 200, got %d: %s", w.Code, w.Body.String())
	}

	var voted struct {
		VoteCount int    `json:"voteCount"`
		UserVote  string `json:"userVote"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &voted); err != nil {
		t.Fatalf("decode vote response: %v", err)
	}
	if voted.VoteCount != 1 || voted.UserVote != "up" {
		t.Fatalf("unexpected vote response: %+v", voted)
	}

	// Voting twice is a client error, not a change of vote
	w = doJSON(t, router, "POST", fmt.Sprintf("/api/questions/%d/vote", q.ID), voter.ID, gin.H{"vote_type": "down"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second vote: want 400, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, "GET", fmt.Sprintf("/api/questions/%d/vote", q.ID), voter.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("vote fetch: want 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"userVote":"up"`) {
		t.Fatalf("unexpected vote fetch body: %s", w.Body.String())
	}

	w = doJSON(t, router, "POST", "/api/questions/9999/vote", voter.ID, gin.H{"vote_type": "up"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("vote on unknown question: want 404, got %d", w.Code)
	}
}

func TestQuestionListFloorsAndClampsPaging(t *testing.T) {
	d := newTestDeps(t)
	router := newTestRouter(d)

	author := createUser(t, d, "pager")
	q := &model.Question{Title: "Paging", Content: "c", UserID: author.ID}
	if err := d.DB.Create(q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}

	tests := []struct {
		path     string
		wantPage int
	}{
		{"/api/questions?page=0", 1},
		{"/api/questions?page=-3", 1},
		{"/api/questions?page=abc", 1},
		{"/api/questions?limit=0", 1},
		{"/api/questions?limit=999", 1},
		{"/api/questions?limit=junk", 1},
	}

	for _, tt := range tests {
		w := doJSON(t, router, "GET", tt.path, "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: want 200, got %d: %s", tt.path, w.Code, w.Body.String())
		}

		var listed struct {
			Questions  []service.QuestionSummary `json:"questions"`
			Pagination service.Pagination        `json:"pagination"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
			t.Fatalf("%s: decode list response: %v", tt.path, err)
		}
		if listed.Pagination.CurrentPage != tt.wantPage {
			t.Fatalf("%s: want page %d, got %+v", tt.path, tt.wantPage, listed.Pagination)
		}
		if len(listed.Questions) != 1 {
			t.Fatalf("%s: want 1 question, got %d", tt.path, len(listed.Questions))
		}
	}
}
