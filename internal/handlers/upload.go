package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lakshyamela/platform/internal/auth"
	"github.com/lakshyamela/platform/internal/middleware"
	"github.com/lakshyamela/platform/internal/models"
	"github.com/lakshyamela/platform/internal/services"
	"github.com/lakshyamela/platform/internal/storage"
	apperr "github.com/lakshyamela/platform/pkg/errors"
	"github.com/lakshyamela/platform/pkg/logger"
)

// TokenVerifier resolves a bearer token to a verified user via the external
// auth service.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.VerifyResponse, error)
}

// AllowlistChecker answers whether an email is pre-approved (owner or club).
type AllowlistChecker interface {
	IsAllowed(ctx context.Context, email string) (bool, error)
}

// ObjectStore is the storage surface the upload path needs.
type ObjectStore interface {
	Enabled() bool
	Bucket() string
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PublicURL(key string) (string, error)
}

// UploadHandler handles authenticated media uploads. One write to object
// storage per successful call; no local state is retained and nothing is
// retried.
type UploadHandler struct {
	verifier  TokenVerifier
	allowlist AllowlistChecker
	store     ObjectStore
	now       func() time.Time
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(verifier TokenVerifier, allowlist AllowlistChecker, store ObjectStore) *UploadHandler {
	return &UploadHandler{
		verifier:  verifier,
		allowlist: allowlist,
		store:     store,
		now:       time.Now,
	}
}

// authorizedEmail authenticates the request and returns the lowercased email
// when it is present in at least one allowlist.
//
// Failure kinds are distinct: no/invalid token is 401, a verified user
// without an email or outside both allowlists is 403, and an allowlist
// lookup failure is 500 rather than "not found".
func (h *UploadHandler) authorizedEmail(c *gin.Context) (string, *apperr.AppError) {
	authHeader := c.GetHeader("Authorization")
	const prefix = "Bearer "

	if !strings.HasPrefix(authHeader, prefix) {
		return "", apperr.Unauthorized("Missing auth token")
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	if token == "" {
		return "", apperr.Unauthorized("Missing auth token")
	}

	user, err := h.verifier.Verify(c.Request.Context(), token)
	if err != nil || user == nil {
		return "", apperr.Unauthorized("Invalid auth token")
	}

	email := services.NormalizeEmail(user.Email)
	if email == "" {
		return "", apperr.Forbidden("Email not found")
	}

	allowed, err := h.allowlist.IsAllowed(c.Request.Context(), email)
	if err != nil {
		return "", apperr.Upstream("Failed to verify email", err)
	}
	if !allowed {
		return "", apperr.Forbidden("Email not authorized")
	}

	return email, nil
}

// Upload handles POST /api/upload?folder=. Headers: Authorization (required),
// x-file-name (optional), Content-Type (optional). Body: raw file bytes.
// Responds 200 {url, key} on success.
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.store == nil || !h.store.Enabled() || h.store.Bucket() == "" {
		respondError(c, apperr.Config("storage bucket configuration"))
		return
	}

	email, appErr := h.authorizedEmail(c)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	fileName := c.GetHeader("x-file-name")
	if fileName == "" {
		fileName = storage.DefaultFileName
	}
	folder := c.Query("folder")
	if folder == "" {
		folder = storage.DefaultFolder
	}
	contentType := c.GetHeader("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, apperr.BadRequest("Failed to read upload body"))
		return
	}
	if len(body) == 0 {
		respondError(c, apperr.BadRequest("Empty upload"))
		return
	}

	key := storage.ObjectKey(folder, email, h.now(), fileName)

	if err := h.store.Put(c.Request.Context(), key, bytes.NewReader(body), int64(len(body)), contentType); err != nil {
		respondError(c, apperr.Upstream("Failed to store upload", err))
		return
	}

	url, err := h.store.PublicURL(key)
	if err != nil {
		// Deployment misconfiguration, not a caller error.
		respondError(c, apperr.Config("storage public base URL"))
		return
	}

	logger.WithRequestID(middleware.GetRequestID(c)).Info("media uploaded",
		"email", email, "key", key, "bytes", len(body))
	c.JSON(http.StatusOK, models.UploadedObject{URL: url, Key: key})
}
