// Package season computes the current canonical season per sport and renders
// human-readable season labels. Years are canonical starting years; the
// ESPN-specific platform-year shift lives in the adapter.
package season

import (
	"fmt"
	"strconv"
	"time"
)

// Rollover months, US-Eastern. Before the rollover month the current season
// is still the previous calendar year's.
var rolloverMonth = map[string]time.Month{
	"baseball":   time.February,
	"football":   time.July,
	"basketball": time.August,
	"hockey":     time.August,
}

var eastern = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// Current returns the canonical season year in progress (or upcoming) for a
// sport at the given instant. Unknown sports roll over in January.
func Current(sport string, now time.Time) int {
	now = now.In(eastern)
	month, ok := rolloverMonth[sport]
	if !ok {
		return now.Year()
	}
	if now.Month() < month {
		return now.Year() - 1
	}
	return now.Year()
}

// Label renders a canonical year for display: cross-calendar sports get the
// "2024-25" form, others the plain year.
func Label(canonicalYear int, sport string) string {
	switch sport {
	case "basketball", "hockey":
		return fmt.Sprintf("%d-%02d", canonicalYear, (canonicalYear+1)%100)
	default:
		return strconv.Itoa(canonicalYear)
	}
}
