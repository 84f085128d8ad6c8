package user

import (
	"net/http"
	"time"

	"stackit/qa-api/internal"
	"stackit/qa-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type verifyBody struct {
	Token string `json:"token"`
}

type partialVerifToken struct {
	UserID    string
	ExpiresAt time.Time
	Purpose   string
	Used      bool
}

func UserVerify(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data verifyBody
	if err := c.ShouldBind(&data); err != nil || data.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No verification token provided",
			"requestID": requestID,
		})
		return
	}

	var verifRecord partialVerifToken

	err := d.DB.
		Model(model.VerificationToken{}).
		Where("token = ? AND purpose = ?", data.Token, "email_verify").
		Select("user_id", "expires_at", "purpose", "used").
		First(&verifRecord).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid or expired verification token",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to get verification token record", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if verifRecord.Used {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Token was used already",
			"requestID": requestID,
		})
		return
	}

	if verifRecord.ExpiresAt.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Verification token has expired",
			"requestID": requestID,
		})
		return
	}

	err = d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.VerificationToken{}).
			Where("token = ?", data.Token).
			Updates(map[string]any{
				"used":    true,
				"used_at": time.Now(),
			}).Error; err != nil {
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", verifRecord.UserID).
			Update("verified", true).
			Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to verify email",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update user and token in transaction", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var user model.User
	if err := d.DB.First(&user, "id = ?", verifRecord.UserID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load verified user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Log the user in right away so the frontend can skip the login form
	authToken, err := makeToken(&jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(time.Hour * 24 * 7).Unix(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate JWT auth token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully!",
		"token":   authToken,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}
