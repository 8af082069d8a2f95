package catalog

import (
	"strings"

	"github.com/lakshyamela/platform/internal/models"
)

// Stalls is the built-in sample directory shown before real submissions
// exist. Records are keyed by slug within a category.
var Stalls = []models.Stall{
	// Food stalls
	{
		ID:          "1",
		Name:        "Spicy Bites",
		Slug:        "spicy-bites",
		Category:    "food",
		Description: "The best spicy street food in town! Come try our famous pani puri and chaat.",
		BannerImage: "/images/food.png",
		Images:      []string{"/images/food.png", "/images/food.png"},
		OwnerName:   "Rajesh Kumar",
		OwnerPhone:  "+91 98765 43210",
		Instagram:   "@spicybites_official",
		Items: []models.StallItem{
			{Name: "Pani Puri", Price: "₹50"},
			{Name: "Samosa Chaat", Price: "₹80"},
			{Name: "Masala Dosa", Price: "₹120"},
		},
	},
	{
		ID:          "2",
		Name:        "Sweet Cravings",
		Slug:        "sweet-cravings",
		Category:    "food",
		Description: "Delicious homemade sweets and desserts to satisfy your cravings.",
		BannerImage: "/images/food.png",
		Images:      []string{"/images/food.png", "/images/food.png"},
		OwnerName:   "Priya Singh",
		OwnerPhone:  "+91 91234 56789",
		Items: []models.StallItem{
			{Name: "Gulab Jamun", Price: "₹40"},
			{Name: "Jalebi", Price: "₹60"},
		},
	},

	// Accessories stalls
	{
		ID:          "3",
		Name:        "Sparkle & Shine",
		Slug:        "sparkle-and-shine",
		Category:    "accessories",
		Description: "Handmade jewelry and accessories for every occasion.",
		BannerImage: "/images/accessories.png",
		Images:      []string{"/images/accessories.png"},
		OwnerName:   "Ananya Gupta",
		OwnerPhone:  "+91 99887 76655",
		Instagram:   "@sparkle_shine_jewelry",
		Items: []models.StallItem{
			{Name: "Beaded Necklace", Price: "₹250"},
			{Name: "Silver Earrings", Price: "₹150"},
		},
	},

	// Games stalls
	{
		ID:          "4",
		Name:        "Target Practice",
		Slug:        "target-practice",
		Category:    "games",
		Description: "Test your aim and win exciting prizes!",
		BannerImage: "/images/games.png",
		Images:      []string{"/images/games.png"},
		OwnerName:   "Vikram Malhotra",
		OwnerPhone:  "+91 88776 65544",
		Items: []models.StallItem{
			{Name: "3 Shots", Price: "₹50"},
			{Name: "10 Shots", Price: "₹150"},
		},
	},
}

// ByCategory returns the sample stalls in the given category
// (case-insensitive).
func ByCategory(category string) []models.Stall {
	var out []models.Stall
	for _, stall := range Stalls {
		if strings.EqualFold(stall.Category, category) {
			out = append(out, stall)
		}
	}
	return out
}

// BySlug returns the sample stall with the given slug, or nil.
func BySlug(slug string) *models.Stall {
	for i := range Stalls {
		if Stalls[i].Slug == slug {
			return &Stalls[i]
		}
	}
	return nil
}
