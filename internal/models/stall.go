package models

import (
	"encoding/json"
	"strings"
	"time"
)

// StallSubmission is a submitted stall record. The payload is stored and
// served verbatim; its internal schema is only partially validated (missing
// fields are treated as absent, never as an error).
type StallSubmission struct {
	ID         string          `json:"id"`
	OwnerEmail string          `json:"owner_email"`
	StallSlug  string          `json:"stall_slug"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Stall is the loosely-typed view of a stall payload. Every field is
// optional; consumers apply the "missing field means absent" policy.
type Stall struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name,omitempty"`
	Slug        string      `json:"slug,omitempty"`
	Category    string      `json:"category,omitempty"`
	Description string      `json:"description,omitempty"`
	BannerImage string      `json:"bannerImage,omitempty"`
	LogoImage   string      `json:"logoImage,omitempty"`
	Images      []string    `json:"images,omitempty"`
	OwnerName   string      `json:"ownerName,omitempty"`
	OwnerPhone  string      `json:"ownerPhone,omitempty"`
	Instagram   string      `json:"instagram,omitempty"`
	Highlights  []string    `json:"highlights,omitempty"`
	Offers      []string    `json:"offers,omitempty"`
	BestSellers []string    `json:"bestSellers,omitempty"`
	Items       []StallItem `json:"items,omitempty"`
}

// StallItem is a menu item. Submitted payloads carry items either as plain
// strings ("Chai ₹20") or as {name, price} objects; both decode here.
type StallItem struct {
	Name  string `json:"name,omitempty"`
	Price string `json:"price,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form of an item.
func (it *StallItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		it.Name = s
		it.Price = ""
		return nil
	}

	type alias StallItem
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*it = StallItem(obj)
	return nil
}

// Text returns the item's searchable text: name and price joined with a
// space, trimmed.
func (it StallItem) Text() string {
	return strings.TrimSpace(it.Name + " " + it.Price)
}

// UploadedObject is the result of a successful media upload. The key is
// derived, never stored; object storage is the source of truth for existence.
type UploadedObject struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
