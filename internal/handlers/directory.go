package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lakshyamela/platform/internal/catalog"
)

// DirectoryHandler serves the built-in sample stall directory.
type DirectoryHandler struct{}

// NewDirectoryHandler creates a DirectoryHandler.
func NewDirectoryHandler() *DirectoryHandler {
	return &DirectoryHandler{}
}

// List handles GET /api/stalls?category=&q=.
func (h *DirectoryHandler) List(c *gin.Context) {
	stalls := catalog.Filter(catalog.Stalls, c.Query("category"), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"stalls": stalls})
}

// GetBySlug handles GET /api/stalls/:slug.
func (h *DirectoryHandler) GetBySlug(c *gin.Context) {
	slug := strings.ToLower(c.Param("slug"))
	stall := catalog.BySlug(slug)
	if stall == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "stall not found"})
		return
	}
	c.JSON(http.StatusOK, stall)
}
