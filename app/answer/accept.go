package answer

import (
	"errors"
	"net/http"
	"strconv"

	"stackit/qa-api/internal"
	"stackit/qa-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func AnswerAccept(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	questionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid question ID",
			"requestID": requestID,
		})
		return
	}

	answerID, err := strconv.ParseUint(c.Param("answerID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid answer ID",
			"requestID": requestID,
		})
		return
	}

	err = d.Answers.Accept(c.Request.Context(), uint(questionID), uint(answerID), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotQuestionOwner) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":     "Only the question owner may accept an answer",
				"requestID": requestID,
			})
			return
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Question or answer not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to accept answer", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Answer accepted",
		"requestID": requestID,
	})
}
