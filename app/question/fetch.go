package question

import (
	"net/http"
	"strconv"

	"stackit/qa-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func QuestionFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid question ID",
			"requestID": requestID,
		})
		return
	}

	detail, err := d.Questions.Get(c.Request.Context(), uint(id), c.GetString("userID"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Question not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch question", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, detail)
}
