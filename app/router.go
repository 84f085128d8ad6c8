// Package app wires the HTTP surface together
package app

import (
	"time"

	"stackit/qa-api/app/answer"
	"stackit/qa-api/app/notification"
	"stackit/qa-api/app/question"
	"stackit/qa-api/app/root"
	"stackit/qa-api/app/user"
	"stackit/qa-api/config"
	"stackit/qa-api/db"
	"stackit/qa-api/internal"
	"stackit/qa-api/internal/service"
	"stackit/qa-api/pkg/middleware"
	"stackit/qa-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	d := &internal.Deps{
		Argon:  security.New(),
		Mailer: service.NewMailer(),
	}

	conn, err := db.New()
	if err != nil {
		return nil, err
	}
	d.DB = conn
	d.Votes = service.NewVotes(conn)
	d.Questions = service.NewQuestions(conn)
	d.Answers = service.NewAnswers(conn)

	if config.SeedDemoData() {
		if err := db.Seed(conn, d.Argon); err != nil {
			return nil, err
		}
	}

	makeLogger()

	router := gin.New()

	rateLimit := viper.GetInt("security.rate_limit")

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
			RequestsPerSecond: rateLimit,
			Burst:             rateLimit * 2,
			CleanupInterval:   time.Second,
		}),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	jwt := middleware.NewJWTMiddleware(conn)
	optionalJWT := middleware.NewOptionalJWTMiddleware()
	bodyLimit := middleware.BodySizeLimiter(1 << 20)

	m := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)
	}

	a := m.Group("/auth", bodyLimit)
	{
		// POST /api/auth/register	-> Registers a new user and sends a verification email
		a.POST("/register", func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/auth/login 	-> Logs in a user and returns a JWT token
		a.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/auth/verify-email	-> Consumes a verification token
		a.POST("/verify-email", func(c *gin.Context) { user.UserVerify(c, d) })

		// POST /api/auth/resend-verification -> Issues a fresh verification token
		a.POST("/resend-verification", func(c *gin.Context) { user.UserResendVerification(c, d) })

		// GET /api/auth/me		-> Returns the authenticated user
		a.GET("/me", jwt, func(c *gin.Context) { user.UserMe(c, d) })

		// GET /api/auth/mock-email/:emailID -> Returns a recorded mock email
		a.GET("/mock-email/:emailID", func(c *gin.Context) { user.MockEmailFetch(c, d) })

		// GET /api/auth/verification-emails/:email -> Lists a user's mock emails
		a.GET("/verification-emails/:email", func(c *gin.Context) { user.MockEmailHistory(c, d) })

		// GET /api/auth/verification-status/:email -> Verification state of an account
		a.GET("/verification-status/:email", func(c *gin.Context) { user.VerificationStatus(c, d) })

		// POST /api/auth/demo-email	-> Sends a verification email with no account behind it
		a.POST("/demo-email", func(c *gin.Context) { user.DemoEmail(c, d) })
	}

	q := m.Group("/questions")
	{
		// GET /api/questions		-> Paginated, filtered, sorted question listing
		q.GET("", optionalJWT, func(c *gin.Context) { question.QuestionList(c, d) })

		// POST /api/questions		-> Submits a new question with tags
		q.POST("", jwt, bodyLimit, func(c *gin.Context) { question.QuestionCreate(c, d) })

		// GET /api/questions/:id	-> Question detail with answers, bumps views
		q.GET("/:id", optionalJWT, func(c *gin.Context) { question.QuestionFetch(c, d) })

		// POST /api/questions/:id/vote	-> Casts the caller's one vote on a question
		q.POST("/:id/vote", jwt, bodyLimit, func(c *gin.Context) { question.QuestionVote(c, d) })

		// GET /api/questions/:id/vote	-> Returns the caller's vote on a question
		q.GET("/:id/vote", jwt, func(c *gin.Context) { question.QuestionVoteFetch(c, d) })

		// POST /api/questions/:id/answers -> Posts an answer
		q.POST("/:id/answers", jwt, bodyLimit, func(c *gin.Context) { answer.AnswerCreate(c, d) })

		// POST /api/questions/:id/answers/:answerID/accept -> Marks an answer accepted
		q.POST("/:id/answers/:answerID/accept", jwt, func(c *gin.Context) { answer.AnswerAccept(c, d) })
	}

	an := m.Group("/answers", jwt)
	{
		// POST /api/answers/:id/vote	-> Casts the caller's one vote on an answer
		an.POST("/:id/vote", bodyLimit, func(c *gin.Context) { answer.AnswerVote(c, d) })
	}

	n := m.Group("/notifications")
	{
		// GET /api/notifications/latest-questions -> Newest questions for the navbar feed
		n.GET("/latest-questions", cacheFor(30), func(c *gin.Context) { notification.LatestQuestions(c, d) })
	}

	// Check for useless tokens every day because they expire rarely
	service.TokenCleanup(time.Hour*24, conn)

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
