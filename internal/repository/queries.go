package repository

import "time"

// Page represents a simple limit/offset window for listing operations.
// I keep it intentionally small; advanced filtering belongs to the typed
// filters below.
type Page struct {
	Limit  int
	Offset int
}

// PageResult carries a slice of items and the total count matching the query.
// I return the total so clients can compute pagination without an extra
// round trip.
type PageResult[T any] struct {
	Items []T
	Total int
}

// PlayerFilter narrows roster listings. Zero values mean "no constraint";
// Availability is a pointer so false can be queried explicitly.
type PlayerFilter struct {
	Availability *bool
	Position     string
	InjuryStatus string
}

// MatchFilter narrows match listings by type, status and date range.
// Zero time bounds are open-ended.
type MatchFilter struct {
	Type   string
	Status string
	From   time.Time
	To     time.Time
}

// Matches reports whether the given values satisfy the filter. Shared by
// implementations that filter in process.
func (f MatchFilter) Matches(typ, status string, date time.Time) bool {
	if f.Type != "" && f.Type != typ {
		return false
	}
	if f.Status != "" && f.Status != status {
		return false
	}
	if !f.From.IsZero() && date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && date.After(f.To) {
		return false
	}
	return true
}
