package model

import "time"

// Item represents a reported lost-or-found object.
// Items are immutable once created; there is no edit flow.
type Item struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       Category  `json:"category"`
	Status         Status    `json:"status"`
	Location       string    `json:"location"`
	Date           Date      `json:"date"`
	ReportedBy     string    `json:"reportedBy"`
	ReporterRole   string    `json:"role,omitempty"`
	AdditionalInfo string    `json:"additionalInfo,omitempty"`
	ContactInfo    string    `json:"contactInfo,omitempty"`
	ImageCount     int       `json:"imageCount"`
	CreatedAt      time.Time `json:"created_at"`

	// ReporterID links back to the reporting account for access checks.
	ReporterID *int64 `json:"-"`
}

// ItemImage is one image attached to an item, in display order.
// Data is only populated when the payload itself is requested.
type ItemImage struct {
	ItemID   string `json:"item_id"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	MIME     string `json:"mime"`
	Size     int64  `json:"size"`
	BlobKey  string `json:"-"`
}

// Status is the closed lost/found enumeration.
type Status string

const (
	StatusLost  Status = "lost"
	StatusFound Status = "found"
)

// ParseStatus validates a status value from the outside world.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusLost, StatusFound:
		return Status(s), true
	}
	return "", false
}

// Label returns the display name for a status.
func (s Status) Label() string {
	if s == StatusFound {
		return "Found"
	}
	return "Lost"
}

// Category is the closed item category enumeration.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryBooks       Category = "books"
	CategoryClothing    Category = "clothing"
	CategoryAccessories Category = "accessories"
	CategoryKeys        Category = "keys"
	CategorySports      Category = "sports"
	CategoryOther       Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryBooks,
	CategoryClothing,
	CategoryAccessories,
	CategoryKeys,
	CategorySports,
	CategoryOther,
}

// ParseCategory validates a category value from the outside world.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if Category(s) == c {
			return c, true
		}
	}
	return "", false
}

// CategoryInfo is the display metadata for a category.
type CategoryInfo struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

// Info returns the display metadata for a category. The mapping is
// exhaustive over the enumeration; anything else renders as "other".
func (c Category) Info() CategoryInfo {
	switch c {
	case CategoryElectronics:
		return CategoryInfo{Icon: "📱", Label: "Electronics"}
	case CategoryBooks:
		return CategoryInfo{Icon: "📚", Label: "Books"}
	case CategoryClothing:
		return CategoryInfo{Icon: "👕", Label: "Clothing"}
	case CategoryAccessories:
		return CategoryInfo{Icon: "👜", Label: "Accessories"}
	case CategoryKeys:
		return CategoryInfo{Icon: "🔑", Label: "Keys"}
	case CategorySports:
		return CategoryInfo{Icon: "⚽", Label: "Sports"}
	default:
		return CategoryInfo{Icon: "📦", Label: "Other"}
	}
}
