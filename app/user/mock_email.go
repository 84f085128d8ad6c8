package user

import (
	"net/http"

	"stackit/qa-api/internal"

	"github.com/gin-gonic/gin"
)

// MockEmailFetch returns one recorded mock email by its ID. Demo surface
// for the email-preview page, only meaningful in mock mail mode.
func MockEmailFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	record, ok := d.Mailer.Record(c.Param("emailID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Email not found",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, record)
}

// MockEmailHistory lists a user's recorded verification emails, newest
// first.
func MockEmailHistory(c *gin.Context, d *internal.Deps) {
	records := d.Mailer.RecordsFor(c.Param("email"))

	c.JSON(http.StatusOK, gin.H{
		"emails": records,
		"count":  len(records),
	})
}
