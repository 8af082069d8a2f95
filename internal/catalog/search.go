package catalog

import (
	"strings"

	"github.com/lakshyamela/platform/internal/models"
)

// Categories is the fixed category set plus the "all" wildcard.
var Categories = []string{"all", "food", "accessories", "games"}

// Filter applies the catalog view's filtering: category is an exact
// case-insensitive match ("" and "all" match everything), query is a
// case-folded substring check over the stall's searchable text. Containment
// is boolean; there is no ranking.
func Filter(stalls []models.Stall, category, query string) []models.Stall {
	normalized := strings.ToLower(strings.TrimSpace(query))

	var out []models.Stall
	for _, stall := range stalls {
		if !matchesCategory(stall, category) {
			continue
		}
		if normalized != "" && !Matches(stall, normalized) {
			continue
		}
		out = append(out, stall)
	}
	return out
}

func matchesCategory(stall models.Stall, category string) bool {
	if category == "" || strings.EqualFold(category, "all") {
		return true
	}
	return strings.EqualFold(stall.Category, category)
}

// Matches reports whether the lowercased query occurs in the stall's
// searchable text: owner name, stall name, description, highlights, offers,
// best sellers, and item name+price texts, joined with spaces.
func Matches(stall models.Stall, normalizedQuery string) bool {
	parts := []string{
		stall.OwnerName,
		stall.Name,
		stall.Description,
	}
	parts = append(parts, stall.Highlights...)
	parts = append(parts, stall.Offers...)
	parts = append(parts, stall.BestSellers...)
	for _, item := range stall.Items {
		parts = append(parts, item.Text())
	}

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	haystack := strings.ToLower(strings.Join(nonEmpty, " "))
	return strings.Contains(haystack, normalizedQuery)
}
