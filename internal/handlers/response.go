package handlers

import (
	"github.com/gin-gonic/gin"

	apperr "github.com/lakshyamela/platform/pkg/errors"
)

// respondError translates an AppError into the JSON error body at the gin
// boundary. Upstream failures carry the collaborator's message in "details".
func respondError(c *gin.Context, err *apperr.AppError) {
	body := gin.H{"error": err.Message}
	if err.Details != "" {
		body["details"] = err.Details
	}
	c.JSON(err.Code, body)
}
