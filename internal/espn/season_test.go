package espn

import "testing"

func TestToPlatformYear(t *testing.T) {
	cases := []struct {
		sport     string
		canonical int
		want      int
	}{
		{"football", 2024, 2024},
		{"baseball", 2025, 2025},
		{"basketball", 2024, 2025},
		{"hockey", 2024, 2025},
	}
	for _, tc := range cases {
		if got := ToPlatformYear(tc.canonical, tc.sport); got != tc.want {
			t.Errorf("ToPlatformYear(%d, %s): want %d, got %d", tc.canonical, tc.sport, tc.want, got)
		}
	}
}

func TestFromPlatformYearRoundTrip(t *testing.T) {
	for _, sport := range []string{"football", "baseball", "basketball", "hockey"} {
		for year := 2000; year <= 2026; year++ {
			if got := FromPlatformYear(ToPlatformYear(year, sport), sport); got != year {
				t.Fatalf("%s %d: round trip gave %d", sport, year, got)
			}
		}
	}
}
