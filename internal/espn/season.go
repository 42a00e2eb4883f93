package espn

import (
	"github.com/flaim-app/fantasy-mcp/internal/platform"
)

// ESPN keys basketball and hockey seasons by their end year; everything else
// by the start year. The gateway boundary always speaks canonical start
// years, so every outbound URL goes through ToPlatformYear and every outward
// payload quotes the canonical year.

// ToPlatformYear converts a canonical start year to the year ESPN expects.
func ToPlatformYear(canonical int, sport string) int {
	switch sport {
	case platform.Basketball, platform.Hockey:
		return canonical + 1
	default:
		return canonical
	}
}

// FromPlatformYear is the inverse of ToPlatformYear.
func FromPlatformYear(platformYear int, sport string) int {
	switch sport {
	case platform.Basketball, platform.Hockey:
		return platformYear - 1
	default:
		return platformYear
	}
}
