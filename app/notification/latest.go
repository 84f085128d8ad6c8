package notification

import (
	"net/http"

	"stackit/qa-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const latestCount = 5

// LatestQuestions feeds the navbar notification dropdown with the newest
// question stubs. The read-state lives in the browser, the backend only
// serves the feed.
func LatestQuestions(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	items, err := d.Questions.Latest(c.Request.Context(), latestCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch latest questions", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": items,
	})
}
