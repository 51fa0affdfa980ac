package catalog

import "github.com/AbdulMoizz31/lost-found-portal/internal/model"

// Criteria is the active set of filter fields. Zero values mean "all"
// (status, category) or "unset" (date bounds). Fields are independent
// and combine with logical AND.
type Criteria struct {
	Status   model.Status
	Category model.Category
	DateFrom model.Date
	DateTo   model.Date
}

// IsZero reports whether every field is at its default.
func (c Criteria) IsZero() bool {
	return c.Status == "" && c.Category == "" && c.DateFrom.IsZero() && c.DateTo.IsZero()
}

// Apply filters items by the criteria. The result is a subset of items in
// their original relative order; an empty result is a valid outcome.
func Apply(items []model.Item, c Criteria) []model.Item {
	if c.IsZero() {
		return items
	}

	filtered := make([]model.Item, 0, len(items))
	for _, item := range items {
		if c.Status != "" && item.Status != c.Status {
			continue
		}
		if c.Category != "" && item.Category != c.Category {
			continue
		}
		if !c.DateFrom.IsZero() && item.Date.Before(c.DateFrom) {
			continue
		}
		if !c.DateTo.IsZero() && item.Date.After(c.DateTo) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// Stats are the counts derived from a filtered view.
type Stats struct {
	Filtered int `json:"filtered"`
	Found    int `json:"found"`
	Lost     int `json:"lost"`
}

// Summarize computes stats over an (already filtered) item list.
func Summarize(items []model.Item) Stats {
	s := Stats{Filtered: len(items)}
	for _, item := range items {
		switch item.Status {
		case model.StatusFound:
			s.Found++
		case model.StatusLost:
			s.Lost++
		}
	}
	return s
}
