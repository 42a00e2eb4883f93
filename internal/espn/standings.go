package espn

import (
	"context"
	"net/url"
	"sort"
	"strconv"

	"github.com/flaim-app/fantasy-mcp/internal/platform"
)

type teamEntry struct {
	ID       int    `json:"id"`
	Location string `json:"location"`
	Nickname string `json:"nickname"`
	Name     string `json:"name"`
	Abbrev   string `json:"abbrev"`
	Record   struct {
		Overall struct {
			Wins          int     `json:"wins"`
			Losses        int     `json:"losses"`
			Ties          int     `json:"ties"`
			Percentage    float64 `json:"percentage"`
			PointsFor     float64 `json:"pointsFor"`
			PointsAgainst float64 `json:"pointsAgainst"`
		} `json:"overall"`
	} `json:"record"`
}

func (t *teamEntry) displayName() string {
	return teamDisplayName(t.Location, t.Nickname, t.Name, t.ID)
}

// winPct prefers the upstream percentage and recomputes it only when ESPN
// omits the field (older seasons).
func (t *teamEntry) winPct() float64 {
	o := t.Record.Overall
	if o.Percentage > 0 {
		return o.Percentage
	}
	games := o.Wins + o.Losses + o.Ties
	if games == 0 {
		return 0
	}
	return (float64(o.Wins) + 0.5*float64(o.Ties)) / float64(games)
}

func (a *Adapter) fetchTeams(ctx context.Context, c *call) ([]teamEntry, error) {
	query := url.Values{}
	query["view"] = []string{"mStandings", "mTeam"}

	var payload struct {
		Teams []teamEntry `json:"teams"`
	}
	err := a.client.GetJSON(ctx, Request{
		Sport: c.sport,
		Path:  LeaguePath(c.platformYear, c.leagueID),
		Query: query,
		Creds: c.creds,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Teams, nil
}

// handleStandings sorts client-side: ESPN's team order is entry order, not
// rank. Win percentage descending, then wins descending; rank is dense.
func (a *Adapter) handleStandings(ctx context.Context, c *call) platform.Result {
	teams, err := a.fetchTeams(ctx, c)
	if err != nil {
		return failFrom(err)
	}

	sort.SliceStable(teams, func(i, j int) bool {
		pi, pj := teams[i].winPct(), teams[j].winPct()
		if pi != pj {
			return pi > pj
		}
		return teams[i].Record.Overall.Wins > teams[j].Record.Overall.Wins
	})

	rows := make([]map[string]any, 0, len(teams))
	for i, t := range teams {
		o := t.Record.Overall
		rows = append(rows, map[string]any{
			"rank":          i + 1,
			"teamId":        strconv.Itoa(t.ID),
			"teamName":      t.displayName(),
			"abbrev":        t.Abbrev,
			"wins":          o.Wins,
			"losses":        o.Losses,
			"ties":          o.Ties,
			"winPct":        t.winPct(),
			"pointsFor":     o.PointsFor,
			"pointsAgainst": o.PointsAgainst,
		})
	}

	return platform.OK(map[string]any{
		"platform":   platform.ESPN,
		"sport":      c.sport,
		"leagueId":   c.leagueID,
		"seasonYear": c.canonicalYear,
		"standings":  rows,
	})
}
