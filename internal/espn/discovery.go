package espn

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flaim-app/fantasy-mcp/internal/authworker"
	"github.com/flaim-app/fantasy-mcp/internal/platform"
	"github.com/flaim-app/fantasy-mcp/internal/season"
)

const (
	// discoveryMinYear is the hard floor: ESPN fantasy data is unreliable
	// before 2000 and most endpoints 404 outright.
	discoveryMinYear = 2000

	// discoveryMaxMisses stops the walk after this many consecutive missing
	// seasons, on the theory that leagues do not skip two years and return.
	discoveryMaxMisses = 2

	discoveryProbeDelay = 200 * time.Millisecond
	discoveryRetryDelay = time.Second
)

// DiscoveredSeason is one confirmed historical season.
type DiscoveredSeason struct {
	SeasonYear int    `json:"seasonYear"`
	LeagueName string `json:"leagueName"`
	TeamCount  int    `json:"teamCount"`
	TeamID     string `json:"teamId"`
	TeamName   string `json:"teamName,omitempty"`
}

// DiscoveryResult is the full outcome of one discovery run. Partial results
// are normal: rate limiting and the league cap both end the walk early with
// whatever was found so far.
type DiscoveryResult struct {
	Success        bool               `json:"success"`
	LeagueID       string             `json:"leagueId"`
	Sport          string             `json:"sport"`
	StartYear      int                `json:"startYear"`
	MinYearReached bool               `json:"minYearReached"`
	RateLimited    bool               `json:"rateLimited"`
	LimitExceeded  bool               `json:"limitExceeded"`
	Discovered     []DiscoveredSeason `json:"discovered"`
	Skipped        int                `json:"skipped"`
	Error          string             `json:"error,omitempty"`
	Code           string             `json:"code,omitempty"`
}

// DiscoveryInput describes one discovery request.
type DiscoveryInput struct {
	Sport           string
	LeagueID        string
	BaseTeamID      string
	ExistingSeasons []int
	Creds           *Credentials
	AuthHeader      string
}

// discoveryEngine walks seasons newest-first. Probe, Save, Sleep and Now are
// injectable so tests can script upstream behavior without a server.
type discoveryEngine struct {
	Probe func(ctx context.Context, canonicalYear int) (*BasicInfo, error)
	Save  func(ctx context.Context, s DiscoveredSeason) error
	Sleep func(d time.Duration)
	Now   func() time.Time
}

func (e *discoveryEngine) run(ctx context.Context, in DiscoveryInput) DiscoveryResult {
	out := DiscoveryResult{
		LeagueID:   in.LeagueID,
		Sport:      in.Sport,
		Discovered: []DiscoveredSeason{},
	}
	if in.BaseTeamID == "" {
		out.Code = platform.CodeTeamIDMissing
		out.Error = "baseTeamId is required for season discovery"
		return out
	}

	existing := map[int]bool{}
	for _, y := range in.ExistingSeasons {
		existing[y] = true
	}

	startYear := season.Current(in.Sport, e.Now())
	out.StartYear = startYear

	hadHit := len(in.ExistingSeasons) > 0
	misses := 0
	probed := false

	for year := startYear; year >= discoveryMinYear; year-- {
		// Known seasons are skipped without counting toward the miss
		// streak: a saved season proves the league existed that year.
		if existing[year] {
			out.Skipped++
			continue
		}

		// The current and previous seasons are always probed even after
		// the miss streak fills: a league may sit out a year around now.
		forced := year == startYear || year == startYear-1
		if !forced && misses >= discoveryMaxMisses {
			return out.finish(false)
		}

		if probed {
			e.Sleep(discoveryProbeDelay)
		}
		probed = true

		info, err := e.probeOnce(ctx, year)
		if err != nil {
			out.Error = err.Error()
			out.Code = platform.CodeESPNError
			return out
		}

		switch {
		case info.Success && len(info.Teams) > 0:
			hadHit = true
			misses = 0
			found := DiscoveredSeason{
				SeasonYear: year,
				LeagueName: info.LeagueName,
				TeamCount:  len(info.Teams),
				TeamID:     in.BaseTeamID,
			}
			for _, t := range info.Teams {
				if t.TeamID == in.BaseTeamID {
					found.TeamName = t.Name
					break
				}
			}
			out.Discovered = append(out.Discovered, found)

			if err := e.Save(ctx, found); err != nil {
				var limitErr *authworker.LimitExceededError
				if errors.As(err, &limitErr) {
					out.LimitExceeded = true
					return out.finish(false)
				}
				pkgLogger().Warn("season save failed", "league", in.LeagueID, "year", year, "err", err)
			}

		case info.HTTPStatus == http.StatusTooManyRequests:
			out.RateLimited = true
			return out.finish(false)

		case info.HTTPStatus == http.StatusUnauthorized || info.HTTPStatus == http.StatusForbidden:
			// Auth failures before any confirmed season mean the cookies
			// are bad, not that the season is missing.
			if !hadHit {
				out.Error = "ESPN rejected the stored credentials"
				out.Code = platform.CodeAuthFailed
				return out
			}
			misses++

		default:
			// 404, or an empty shell league. Plain miss.
			misses++
		}
	}

	return out.finish(true)
}

func (r DiscoveryResult) finish(minYearReached bool) DiscoveryResult {
	r.Success = true
	r.MinYearReached = minYearReached
	return r
}

// probeOnce retries exactly once, after a pause, when the probe fails in an
// unclassified way. Cancellation is not retried.
func (e *discoveryEngine) probeOnce(ctx context.Context, year int) (*BasicInfo, error) {
	info, err := e.Probe(ctx, year)
	if err == nil {
		return info, nil
	}
	if ctx.Err() != nil || errors.Is(err, ErrTimeout) {
		return nil, err
	}
	e.Sleep(discoveryRetryDelay)
	return e.Probe(ctx, year)
}

// DiscoverSeasons walks a league's history and saves every confirmed season
// to the auth worker, backfilling the team id on 409 conflicts.
func (a *Adapter) DiscoverSeasons(ctx context.Context, in DiscoveryInput) DiscoveryResult {
	engine := &discoveryEngine{
		Probe: func(ctx context.Context, year int) (*BasicInfo, error) {
			return a.BasicLeagueInfo(ctx, in.Sport, in.LeagueID, year, in.Creds)
		},
		Save: func(ctx context.Context, s DiscoveredSeason) error {
			err := a.auth.AddLeague(ctx, in.AuthHeader, authworker.LeagueConfig{
				Platform:   platform.ESPN,
				Sport:      in.Sport,
				LeagueID:   in.LeagueID,
				SeasonYear: s.SeasonYear,
				TeamID:     s.TeamID,
				TeamName:   s.TeamName,
				LeagueName: s.LeagueName,
			})
			var conflict *authworker.ConflictError
			if errors.As(err, &conflict) {
				return a.auth.UpdateLeagueTeam(ctx, in.AuthHeader, conflict.ExistingID, s.TeamID, s.TeamName, s.SeasonYear)
			}
			return err
		},
		Sleep: time.Sleep,
		Now:   time.Now,
	}
	return engine.run(ctx, in)
}
