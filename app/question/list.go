package question

import (
	"net/http"
	"strconv"
	"strings"

	"stackit/qa-api/internal"
	"stackit/qa-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func QuestionList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	// Paging input is lenient: non-numeric or out-of-range values fall
	// back to the defaults and get floored/clamped downstream instead of
	// erroring
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = service.DefaultPageSize
	}

	var tags []string
	if raw := c.Query("tag"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	// userID is only present when the optional JWT middleware accepted a
	// token
	userID := c.GetString("userID")

	items, pagination, err := d.Questions.List(c.Request.Context(), service.ListParams{
		Sort:   strings.ToLower(c.DefaultQuery("sort", "newest")),
		Tags:   tags,
		Page:   page,
		Limit:  limit,
		UserID: userID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list questions", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"questions":  items,
		"pagination": pagination,
	})
}
