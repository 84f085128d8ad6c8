package user

import (
	"errors"
	"net/http"
	"time"

	"stackit/qa-api/internal"
	"stackit/qa-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VerificationStatus reports whether an account's email is verified and
// whether a usable verification token is still pending. Demo surface for
// the verification walkthrough page.
func VerificationStatus(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	email := c.Param("email")

	var user model.User
	err := d.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "User not found",
			"requestID": requestID,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var token model.VerificationToken
	r := d.DB.
		Where("user_id = ? AND purpose = ?", user.ID, "email_verify").
		Order("created_at DESC").
		Limit(1).
		Find(&token)
	if r.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load verification token", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	hasToken := r.RowsAffected > 0 && !token.Used

	var expiresAt *time.Time
	tokenExpired := false
	if r.RowsAffected > 0 {
		expiresAt = &token.ExpiresAt
		tokenExpired = time.Now().After(token.ExpiresAt)
	}

	c.JSON(http.StatusOK, gin.H{
		"email":          email,
		"isVerified":     user.Verified,
		"hasToken":       hasToken,
		"tokenExpired":   tokenExpired,
		"expiresAt":      expiresAt,
		"accountCreated": user.CreatedAt,
		"mockEmails":     d.Mailer.RecordsFor(email),
	})
}
