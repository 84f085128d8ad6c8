package answer

import (
	"errors"
	"net/http"
	"strconv"

	"stackit/qa-api/internal"
	"stackit/qa-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type createBody struct {
	Content string `json:"content"`
}

func AnswerCreate(c *gin.Context, d *internal.Deps) {
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

	var data createBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.ContentValidator(data.Content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	created, err := d.Answers.Create(c.Request.Context(), uint(questionID), data.Content, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Question not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to create answer",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create answer", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          created.ID,
		"content":     created.Content,
		"question_id": created.QuestionID,
		"message":     "Answer posted successfully",
	})
}
