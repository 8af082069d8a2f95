package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperr "github.com/lakshyamela/platform/pkg/errors"
)

// ClubAllowlist loads the clubs allowlist as a lowercase email set.
type ClubAllowlist interface {
	ClubEmails(ctx context.Context) ([]string, error)
}

// StallLister queries stall submissions by owner-email set, newest first.
type StallLister interface {
	ListByOwners(ctx context.Context, ownerEmails []string, category string) ([]json.RawMessage, error)
}

// CatalogHandler serves the public club catalog. Allowlist membership is
// re-evaluated on every call; there is no pagination and no caching.
type CatalogHandler struct {
	allowlist ClubAllowlist
	stalls    StallLister
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(allowlist ClubAllowlist, stalls StallLister) *CatalogHandler {
	return &CatalogHandler{allowlist: allowlist, stalls: stalls}
}

// ListClubStalls handles GET /api/public/clubs?category=. A stall is visible
// iff its owner email is in the clubs allowlist at query time; payloads are
// returned verbatim.
func (h *CatalogHandler) ListClubStalls(c *gin.Context) {
	category := strings.ToLower(c.Query("category"))

	emails, err := h.allowlist.ClubEmails(c.Request.Context())
	if err != nil {
		respondError(c, apperr.Upstream("Failed to load club allowlist", err))
		return
	}

	// Empty allowlist short-circuits without a submissions query.
	if len(emails) == 0 {
		c.JSON(http.StatusOK, gin.H{"stalls": []json.RawMessage{}})
		return
	}

	stalls, err := h.stalls.ListByOwners(c.Request.Context(), emails, category)
	if err != nil {
		respondError(c, apperr.Upstream("Failed to load club stalls", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"stalls": stalls})
}
