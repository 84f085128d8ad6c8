package question

import (
	"errors"
	"net/http"
	"strconv"

	"stackit/qa-api/internal"
	"stackit/qa-api/internal/model"
	"stackit/qa-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type voteBody struct {
	VoteType string `json:"vote_type"`
}

func QuestionVote(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid question ID",
			"requestID": requestID,
		})
		return
	}

	var data voteBody
	if err := c.ShouldBind(&data); err != nil || !model.ValidVoteType(data.VoteType) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "vote_type must be one of: up, down",
			"requestID": requestID,
		})
		return
	}

	net, err := d.Votes.CastQuestionVote(c.Request.Context(), uint(id), userID, data.VoteType)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyVoted) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "You have already voted on this question",
				"requestID": requestID,
			})
			return
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
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

		zap.L().Error("Failed to cast vote", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Vote recorded",
		"voteCount": net,
		"userVote":  data.VoteType,
	})
}

// QuestionVoteFetch returns the caller's vote on a question, or null when
// they haven't voted.
func QuestionVoteFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid question ID",
			"requestID": requestID,
		})
		return
	}

	voteType, err := d.Votes.GetUserVote(c.Request.Context(), uint(id), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up vote", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if voteType == "" {
		c.JSON(http.StatusOK, gin.H{"userVote": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"userVote": voteType})
}
