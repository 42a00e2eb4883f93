package espn

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/flaim-app/fantasy-mcp/internal/platform"
)

// BasicTeam is one league member in a probe response.
type BasicTeam struct {
	TeamID string `json:"teamId"`
	Name   string `json:"name"`
	Abbrev string `json:"abbrev,omitempty"`
}

// BasicStanding is one ranked row of the probed season's standings.
type BasicStanding struct {
	Rank     int    `json:"rank"`
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Ties     int    `json:"ties,omitempty"`
}

// BasicInfo is the probe result for one (league, season) pair. Upstream
// statuses that say something about the season or the credentials (401, 403,
// 404, 429) come back with Success=false and HTTPStatus set instead of an
// error; anything else, a flaky 5xx included, surfaces as an error so callers
// can retry instead of mistaking it for a missing season.
type BasicInfo struct {
	Success    bool            `json:"success"`
	LeagueName string          `json:"leagueName,omitempty"`
	SeasonYear int             `json:"seasonYear,omitempty"`
	Teams      []BasicTeam     `json:"teams,omitempty"`
	Standings  []BasicStanding `json:"standings,omitempty"`
	HTTPStatus int             `json:"httpStatus,omitempty"`
	Error      string          `json:"error,omitempty"`
	Code       string          `json:"code,omitempty"`
}

// BasicLeagueInfo probes whether a league existed in a canonical season and
// returns its name, member teams and standings. A 200 with zero teams is a
// miss: ESPN serves empty shells for some never-played seasons.
func (a *Adapter) BasicLeagueInfo(ctx context.Context, sport, leagueID string, canonicalYear int, creds *Credentials) (*BasicInfo, error) {
	if _, ok := MapsFor(sport); !ok {
		return nil, &APIError{Code: platform.CodeSportNotSupported, Message: "unsupported sport " + sport}
	}

	query := url.Values{}
	query["view"] = []string{"mSettings", "mTeam", "mStandings"}

	var payload struct {
		SeasonID int `json:"seasonId"`
		Settings struct {
			Name string `json:"name"`
		} `json:"settings"`
		Teams []teamEntry `json:"teams"`
	}
	err := a.client.GetJSON(ctx, Request{
		Sport: sport,
		Path:  LeaguePath(ToPlatformYear(canonicalYear, sport), leagueID),
		Query: query,
		Creds: creds,
	}, &payload)
	if err != nil {
		classified := &BasicInfo{
			Success:    false,
			SeasonYear: canonicalYear,
			HTTPStatus: StatusOf(err),
			Error:      err.Error(),
			Code:       CodeOf(err),
		}
		switch classified.HTTPStatus {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusTooManyRequests:
			return classified, nil
		}
		if classified.Code == platform.CodeESPNAuthFailed {
			// The login page comes back with a 200; same meaning as a 401.
			classified.HTTPStatus = http.StatusUnauthorized
			return classified, nil
		}
		return nil, err
	}

	teams := make([]BasicTeam, 0, len(payload.Teams))
	for i := range payload.Teams {
		t := &payload.Teams[i]
		teams = append(teams, BasicTeam{
			TeamID: strconv.Itoa(t.ID),
			Name:   t.displayName(),
			Abbrev: t.Abbrev,
		})
	}

	return &BasicInfo{
		Success:    true,
		LeagueName: payload.Settings.Name,
		SeasonYear: canonicalYear,
		Teams:      teams,
		Standings:  basicStandings(payload.Teams),
		HTTPStatus: 200,
	}, nil
}

// basicStandings ranks the probed teams the same way get_standings does:
// win percentage first, raw wins as the tiebreak.
func basicStandings(teams []teamEntry) []BasicStanding {
	if len(teams) == 0 {
		return nil
	}
	ranked := make([]*teamEntry, len(teams))
	for i := range teams {
		ranked[i] = &teams[i]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].winPct() != ranked[j].winPct() {
			return ranked[i].winPct() > ranked[j].winPct()
		}
		return ranked[i].Record.Overall.Wins > ranked[j].Record.Overall.Wins
	})

	out := make([]BasicStanding, 0, len(ranked))
	for i, t := range ranked {
		out = append(out, BasicStanding{
			Rank:     i + 1,
			TeamID:   strconv.Itoa(t.ID),
			TeamName: t.displayName(),
			Wins:     t.Record.Overall.Wins,
			Losses:   t.Record.Overall.Losses,
			Ties:     t.Record.Overall.Ties,
		})
	}
	return out
}
