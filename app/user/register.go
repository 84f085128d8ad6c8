package user

import (
	"net/http"
	"time"

	"stackit/qa-api/internal"
	"stackit/qa-api/internal/model"
	"stackit/qa-api/pkg/security"
	"stackit/qa-api/pkg/validators"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type registerBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.UsernameValidator(data.Username); err != nil {
		zap.L().Debug("Invalid username", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		zap.L().Debug("Invalid email", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		zap.L().Debug("Invalid password", zap.Error(err), zap.String("requestID", requestID))

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var found bool

	r := d.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ? OR username = ?", data.Email, data.Username).
		Find(&found)
	if r.Error != nil && r.Error != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user is registered", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if found {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Username or email already exists. Please login or use different credentials",
			"requestID": requestID,
		})
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := gonanoid.Generate(security.IDCharset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate user ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	expireAt := time.Now().Add(time.Hour * 24)
	cleanAt := time.Now().Add(time.Hour * 24 * 60)

	verifToken, err := security.MakeVerificationToken(&security.VerificationTokenOpts{
		UserID:    userID,
		Purpose:   "email_verify",
		ExpiresAt: &expireAt, // Expire after 24 hours
		CleanupAt: &cleanAt,  // Cleanup after 60 days
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate verification token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Try to send mail now
	mail, err := d.Mailer.SendVerification(verifToken, data.Email, data.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.DB.Create(&model.User{
		ID:           userID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		VerificationTokens: []model.VerificationToken{
			*verifToken,
		},
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":              "Account created successfully! Please check your email to verify your account.",
		"userId":               userID,
		"email":                data.Email,
		"emailId":              mail.ID,
		"requiresVerification": true,
	})
}
