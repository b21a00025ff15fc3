package fixture

import (
	"strings"
)

const (
	StatusUnplayed  = "unplayed"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusSuspended = "suspended"
)

// Record is one raw fixture object as returned by the provider.
type Record = map[string]any

// ListParams filters a paginated fixture listing. IsLive is tri-state: nil
// leaves the filter off, a set value is sent as-is (including false).
type ListParams struct {
	Sport           string `validate:"required"`
	League          string
	StartDateAfter  string
	StartDateBefore string
	Status          string
	SeasonWeek      string
	IsLive          *bool
	Page            int `validate:"gte=1"`
	MaxPages        int `validate:"gte=1"`
}

// Page is one page of a fixture listing.
type Page struct {
	Items      []Record
	Page       int
	TotalPages int
}

// IsLast reports whether the provider says no page follows this one.
func (p Page) IsLast() bool {
	return p.Page >= p.TotalPages
}

func NormalizeStatus(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func IsKnownStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusUnplayed, StatusLive, StatusCompleted, StatusCancelled, StatusSuspended:
		return true
	default:
		return false
	}
}
