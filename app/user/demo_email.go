package user

import (
	"fmt"
	"net/http"
	"time"

	"stackit/qa-api/internal"
	"stackit/qa-api/internal/model"
	"stackit/qa-api/pkg/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type demoEmailBody struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// DemoEmail sends a verification email without an account behind it, so
// the mock mail flow can be shown off before registering. Nothing is
// persisted, the token only lives inside the recorded mail.
func DemoEmail(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data demoEmailBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" || data.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email and username are required",
			"requestID": requestID,
		})
		return
	}

	token, err := util.GenerateToken(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to send demo email",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate demo token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	record, err := d.Mailer.SendVerification(&model.VerificationToken{
		Token:     token,
		Purpose:   "email_verify",
		ExpiresAt: time.Now().Add(time.Hour * 24),
	}, data.Email, data.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to send demo email",
			"requestID": requestID,
		})

		zap.L().Error("Failed to send demo email", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Demo verification email sent!",
		"emailId":          record.ID,
		"verificationLink": record.Link,
		"previewUrl":       fmt.Sprintf("/api/auth/mock-email/%s", record.ID),
	})
}
