package question

import (
	"net/http"

	"stackit/qa-api/internal"
	"stackit/qa-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createBody struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func QuestionCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data createBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.TitleValidator(data.Title); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.ContentValidator(data.Content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	tags, err := validators.TagsValidator(data.Tags)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	created, err := d.Questions.Create(c.Request.Context(), data.Title, data.Content, tags, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to create question",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create question", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      created.ID,
		"title":   created.Title,
		"content": created.Content,
		"tags":    tags,
		"message": "Question created successfully",
	})
}
