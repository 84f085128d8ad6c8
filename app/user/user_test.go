package user

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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
		&model.VerificationToken{},
	); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	return &internal.Deps{
		DB:     db,
		Mailer: service.NewMailer(),
	}
}

func newTestRouter(d *internal.Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Set("requestID", util.RandStr(10))
		c.Next()
	})

	router.POST("/api/auth/demo-email", func(c *gin.Context) { DemoEmail(c, d) })
	router.GET("/api/auth/mock-email/:emailID", func(c *gin.Context) { MockEmailFetch(c, d) })
	router.GET("/api/auth/verification-status/:email", func(c *gin.Context) { VerificationStatus(c, d) })

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestDemoEmailRecordsMockMail(t *testing.T) {
	d := newTestDeps(t)
	router := newTestRouter(d)

	w := doJSON(t, router, "POST", "/api/auth/demo-email", map[string]string{
		"email":    "demo@example.com",
		"username": "demo",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}

	var sent struct {
		EmailID          string `json:"emailId"`
		VerificationLink string `json:"verificationLink"`
		PreviewURL       string `json:"previewUrl"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sent); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if sent.EmailID == "" || sent.VerificationLink == "" {
		t.Fatalf("incomplete response: %+v", sent)
	}
	if sent.PreviewURL != "/api/auth/mock-email/"+sent.EmailID {
		t.Fatalf("unexpected preview URL %q", sent.PreviewURL)
	}

	w = doJSON(t, router, "GET", "/api/auth/mock-email/"+sent.EmailID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("fetch recorded email: want 200, got %d", w.Code)
	}
}

func TestDemoEmailRequiresEmailAndUsername(t *testing.T) {
	d := newTestDeps(t)
	router := newTestRouter(d)

	for _, body := range []map[string]string{
		{},
		{"email": "demo@example.com"},
		{"username": "demo"},
	} {
		w := doJSON(t, router, "POST", "/api/auth/demo-email", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%v: want 400, got %d", body, w.Code)
		}
	}
}

func TestVerificationStatus(t *testing.T) {
	d := newTestDeps(t)
	router := newTestRouter(d)

	w := doJSON(t, router, "GET", "/api/auth/verification-status/ghost@example.com", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown user: want 404, got %d", w.Code)
	}

	u := &model.User{
		ID:           "id_pending",
		Username:     "pending",
		Email:        "pending@example.com",
		PasswordHash: "x",
		Role:         model.RoleUser,
	}
	if err := d.DB.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token := &model.VerificationToken{
		UserID:    u.ID,
		Token:     "tok_pending",
		Purpose:   "email_verify",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := d.DB.Create(token).Error; err != nil {
		t.Fatalf("create token: %v", err)
	}

	w = doJSON(t, router, "GET", "/api/auth/verification-status/pending@example.com", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}

	var status struct {
		IsVerified   bool `json:"isVerified"`
		HasToken     bool `json:"hasToken"`
		TokenExpired bool `json:"tokenExpired"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status.IsVerified || !status.HasToken || status.TokenExpired {
		t.Fatalf("unexpected status: %+v", status)
	}
}
