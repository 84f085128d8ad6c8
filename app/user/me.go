package user

import (
	"net/http"

	"stackit/qa-api/internal"
	"stackit/qa-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserMe echoes the authenticated user's profile.
func UserMe(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var user model.User
	if err := d.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}
