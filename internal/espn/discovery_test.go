package espn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flaim-app/fantasy-mcp/internal/authworker"
	"github.com/flaim-app/fantasy-mcp/internal/platform"
)

// scriptedEngine builds an engine whose probe answers from a fixed table and
// whose clock is pinned to mid-season 2025 football.
func scriptedEngine(t *testing.T, probes map[int]*BasicInfo, probeErrs map[int]error) (*discoveryEngine, *[]int, *[]DiscoveredSeason) {
	t.Helper()
	var probed []int
	var saved []DiscoveredSeason
	engine := &discoveryEngine{
		Probe: func(_ context.Context, year int) (*BasicInfo, error) {
			probed = append(probed, year)
			if err, ok := probeErrs[year]; ok {
				return nil, err
			}
			if info, ok := probes[year]; ok {
				return info, nil
			}
			return &BasicInfo{Success: false, HTTPStatus: 404}, nil
		},
		Save:  func(_ context.Context, s DiscoveredSeason) error { saved = append(saved, s); return nil },
		Sleep: func(time.Duration) {},
		Now:   func() time.Time { return time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC) },
	}
	return engine, &probed, &saved
}

func hit(year int, teams int) *BasicInfo {
	ts := make([]BasicTeam, teams)
	for i := range ts {
		ts[i] = BasicTeam{TeamID: "1", Name: "Team One"}
	}
	return &BasicInfo{Success: true, LeagueName: "The League", SeasonYear: year, Teams: ts, HTTPStatus: 200}
}

func run(t *testing.T, e *discoveryEngine, existing []int) DiscoveryResult {
	t.Helper()
	return e.run(context.Background(), DiscoveryInput{
		Sport:           "football",
		LeagueID:        "99",
		BaseTeamID:      "1",
		ExistingSeasons: existing,
	})
}

func TestDiscoveryStopsAfterConsecutiveMisses(t *testing.T) {
	engine, probed, saved := scriptedEngine(t, map[int]*BasicInfo{
		2025: hit(2025, 10),
		2024: hit(2024, 10),
		2023: hit(2023, 10),
	}, nil)

	out := run(t, engine, nil)
	if !out.Success {
		t.Fatalf("want success, got %+v", out)
	}
	if len(out.Discovered) != 3 {
		t.Fatalf("want 3 discovered seasons, got %d", len(out.Discovered))
	}
	// 2022 and 2021 miss; 2020 must never be probed.
	for _, y := range *probed {
		if y < 2021 {
			t.Errorf("probed %d past the miss limit", y)
		}
	}
	if len(*saved) != 3 {
		t.Errorf("want 3 saves, got %d", len(*saved))
	}
	if out.MinYearReached {
		t.Error("walk stopped early, minYearReached should be false")
	}
}

func TestDiscoveryForcesTwoMostRecentYears(t *testing.T) {
	// Current and previous season are probed even though both miss.
	engine, probed, _ := scriptedEngine(t, map[int]*BasicInfo{}, nil)

	out := run(t, engine, nil)
	if !out.Success {
		t.Fatalf("want success, got %+v", out)
	}
	want := []int{2025, 2024}
	if len(*probed) != len(want) || (*probed)[0] != 2025 || (*probed)[1] != 2024 {
		t.Errorf("want probes %v, got %v", want, *probed)
	}
}

func TestDiscoverySkipsExistingWithoutCountingMisses(t *testing.T) {
	engine, probed, _ := scriptedEngine(t, map[int]*BasicInfo{
		2021: hit(2021, 8),
	}, nil)

	out := run(t, engine, []int{2025, 2024, 2023, 2022})
	if !out.Success {
		t.Fatalf("want success, got %+v", out)
	}
	if out.Skipped != 4 {
		t.Errorf("want 4 skipped, got %d", out.Skipped)
	}
	if len(out.Discovered) != 1 || out.Discovered[0].SeasonYear != 2021 {
		t.Errorf("want 2021 discovered, got %+v", out.Discovered)
	}
	for _, y := range *probed {
		if y >= 2022 {
			t.Errorf("probed existing season %d", y)
		}
	}
}

func TestDiscoveryRateLimitEndsWithPartialResults(t *testing.T) {
	engine, _, _ := scriptedEngine(t, map[int]*BasicInfo{
		2025: hit(2025, 10),
		2024: {Success: false, HTTPStatus: 429},
	}, nil)

	out := run(t, engine, nil)
	if !out.Success {
		t.Fatalf("rate limit should still be a success, got %+v", out)
	}
	if !out.RateLimited {
		t.Error("want rateLimited=true")
	}
	if len(out.Discovered) != 1 {
		t.Errorf("want the 2025 hit kept, got %d", len(out.Discovered))
	}
}

func TestDiscoveryAuthFailureBeforeAnyHitIsFatal(t *testing.T) {
	engine, _, _ := scriptedEngine(t, map[int]*BasicInfo{
		2025: {Success: false, HTTPStatus: 401},
	}, nil)

	out := run(t, engine, nil)
	if out.Success {
		t.Fatal("want failure when credentials are rejected up front")
	}
	if out.Code != platform.CodeAuthFailed {
		t.Errorf("want AUTH_FAILED, got %s", out.Code)
	}
}

func TestDiscoveryAuthFailureAfterHitIsAMiss(t *testing.T) {
	engine, _, _ := scriptedEngine(t, map[int]*BasicInfo{
		2025: hit(2025, 10),
		2024: {Success: false, HTTPStatus: 403},
		2023: hit(2023, 10),
	}, nil)

	out := run(t, engine, nil)
	if !out.Success {
		t.Fatalf("want success, got %+v", out)
	}
	if len(out.Discovered) != 2 {
		t.Errorf("want 2 discovered, got %d", len(out.Discovered))
	}
}

func TestDiscoveryZeroTeamShellIsAMiss(t *testing.T) {
	engine, _, _ := scriptedEngine(t, map[int]*BasicInfo{
		2025: hit(2025, 10),
		2024: {Success: true, LeagueName: "Shell", HTTPStatus: 200},
	}, nil)

	out := run(t, engine, nil)
	if len(out.Discovered) != 1 {
		t.Errorf("empty shell counted as a season: %+v", out.Discovered)
	}
}

func TestDiscoveryRetriesOnceThenFails(t *testing.T) {
	engine, probed, _ := scriptedEngine(t, nil, map[int]error{
		2025: errors.New("connection reset"),
	})

	out := run(t, engine, nil)
	if out.Success {
		t.Fatal("want failure after retry exhausted")
	}
	if out.Code != platform.CodeESPNError {
		t.Errorf("want ESPN_ERROR, got %s", out.Code)
	}
	if len(*probed) != 2 {
		t.Errorf("want exactly 2 probes (original + retry), got %d", len(*probed))
	}
}

func TestDiscoveryTimeoutIsNotRetried(t *testing.T) {
	engine, probed, _ := scriptedEngine(t, nil, map[int]error{
		2025: ErrTimeout,
	})

	out := run(t, engine, nil)
	if out.Success {
		t.Fatal("want failure on timeout")
	}
	if len(*probed) != 1 {
		t.Errorf("timeout must not be retried, got %d probes", len(*probed))
	}
}

func TestDiscoveryLeagueLimitEndsWalk(t *testing.T) {
	engine, _, _ := scriptedEngine(t, map[int]*BasicInfo{
		2025: hit(2025, 10),
		2024: hit(2024, 10),
	}, nil)
	engine.Save = func(context.Context, DiscoveredSeason) error {
		return &authworker.LimitExceededError{}
	}

	out := run(t, engine, nil)
	if !out.Success {
		t.Fatalf("limit should end the walk as a partial success, got %+v", out)
	}
	if !out.LimitExceeded {
		t.Error("want limitExceeded=true")
	}
	if len(out.Discovered) != 1 {
		t.Errorf("want walk stopped after first save, got %d", len(out.Discovered))
	}
}

func TestDiscoveryRequiresBaseTeam(t *testing.T) {
	engine, _, _ := scriptedEngine(t, nil, nil)
	out := engine.run(context.Background(), DiscoveryInput{Sport: "football", LeagueID: "99"})
	if out.Success || out.Code != platform.CodeTeamIDMissing {
		t.Errorf("want TEAM_ID_MISSING, got %+v", out)
	}
}

func TestDiscoveryReachesMinYear(t *testing.T) {
	probes := map[int]*BasicInfo{}
	for y := 2000; y <= 2025; y++ {
		probes[y] = hit(y, 12)
	}
	engine, _, _ := scriptedEngine(t, probes, nil)

	out := run(t, engine, nil)
	if !out.MinYearReached {
		t.Error("want minYearReached=true when every year hits")
	}
	if len(out.Discovered) != 26 {
		t.Errorf("want 26 seasons, got %d", len(out.Discovered))
	}
}
