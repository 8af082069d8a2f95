package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lakshyamela/platform/internal/storage"
)

// MediaStore is the storage surface the media proxy needs.
type MediaStore interface {
	Enabled() bool
	Get(ctx context.Context, key string) (*storage.GetObjectResult, error)
}

// MediaHandler streams uploaded objects back to the catalog page.
type MediaHandler struct {
	store MediaStore
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(store MediaStore) *MediaHandler {
	return &MediaHandler{store: store}
}

// safeKey returns the object key from the query value and false if invalid.
func safeKey(value string) (string, bool) {
	key := strings.TrimPrefix(strings.TrimSpace(value), "/")
	if key == "" {
		return "", false
	}
	if strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

// Get handles GET /api/media?key=.
func (h *MediaHandler) Get(c *gin.Context) {
	if h.store == nil || !h.store.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage service not configured"})
		return
	}

	key, ok := safeKey(c.Query("key"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing object key"})
		return
	}

	result, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})
		return
	}
	defer result.Reader.Close()

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	size := result.Size
	if size < 0 {
		size = 0
	}
	c.DataFromReader(http.StatusOK, size, contentType, result.Reader, nil)
}
