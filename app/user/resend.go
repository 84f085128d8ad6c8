package user

import (
	"net/http"
	"time"

	"stackit/qa-api/internal"
	"stackit/qa-api/internal/model"
	"stackit/qa-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type resendBody struct {
	Email string `json:"email"`
}

func UserResendVerification(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data resendBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email is required",
			"requestID": requestID,
		})
		return
	}

	var user model.User
	if err := d.DB.Where("email = ?", data.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if user.Verified {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email is already verified",
			"requestID": requestID,
		})
		return
	}

	expireAt := time.Now().Add(time.Hour * 24)
	cleanAt := time.Now().Add(time.Hour * 24 * 60)

	verifToken, err := security.MakeVerificationToken(&security.VerificationTokenOpts{
		UserID:    user.ID,
		Purpose:   "email_verify",
		ExpiresAt: &expireAt,
		CleanupAt: &cleanAt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate verification token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.DB.Create(verifToken).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store verification token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if _, err := d.Mailer.SendVerification(verifToken, user.Email, user.Username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to send verification email",
			"requestID": requestID,
		})

		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Verification email sent successfully!",
		"requestID": requestID,
	})
}
