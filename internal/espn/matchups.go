package espn

import (
	"context"
	"net/url"
	"strconv"

	"github.com/flaim-app/fantasy-mcp/internal/platform"
)

type matchupSide struct {
	TeamID      int     `json:"teamId"`
	TotalPoints float64 `json:"totalPoints"`
}

type scheduleEntry struct {
	ID              int         `json:"id"`
	MatchupPeriodID int         `json:"matchupPeriodId"`
	Home            matchupSide `json:"home"`
	Away            matchupSide `json:"away"`
	Winner          string      `json:"winner"`
	PlayoffTierType string      `json:"playoffTierType"`
}

// handleMatchups returns the scoreboard for one matchup period. With no week
// parameter it uses the league's current matchup period.
func (a *Adapter) handleMatchups(ctx context.Context, c *call) platform.Result {
	query := url.Values{}
	query["view"] = []string{"mMatchupScore", "mScoreboard", "mTeam", "mSettings"}

	var payload struct {
		Status struct {
			CurrentMatchupPeriod int `json:"currentMatchupPeriod"`
		} `json:"status"`
		Teams    []teamEntry     `json:"teams"`
		Schedule []scheduleEntry `json:"schedule"`
	}
	err := a.client.GetJSON(ctx, Request{
		Sport: c.sport,
		Path:  LeaguePath(c.platformYear, c.leagueID),
		Query: query,
		Creds: c.creds,
	}, &payload)
	if err != nil {
		return failFrom(err)
	}

	week := c.params.Week
	if week == 0 {
		week = payload.Status.CurrentMatchupPeriod
	}

	names := make(map[int]string, len(payload.Teams))
	for i := range payload.Teams {
		names[payload.Teams[i].ID] = payload.Teams[i].displayName()
	}
	nameOf := func(id int) string {
		if name, ok := names[id]; ok {
			return name
		}
		return "Team " + strconv.Itoa(id)
	}

	matchups := make([]map[string]any, 0, len(payload.Schedule))
	for _, entry := range payload.Schedule {
		if entry.MatchupPeriodID != week {
			continue
		}
		m := map[string]any{
			"matchupId":  entry.ID,
			"week":       entry.MatchupPeriodID,
			"homeTeamId": strconv.Itoa(entry.Home.TeamID),
			"homeTeam":   nameOf(entry.Home.TeamID),
			"homeScore":  entry.Home.TotalPoints,
			"awayTeamId": strconv.Itoa(entry.Away.TeamID),
			"awayTeam":   nameOf(entry.Away.TeamID),
			"awayScore":  entry.Away.TotalPoints,
			"winner":     entry.Winner,
		}
		if entry.PlayoffTierType != "" && entry.PlayoffTierType != "NONE" {
			m["playoffTier"] = entry.PlayoffTierType
		}
		matchups = append(matchups, m)
	}

	return platform.OK(map[string]any{
		"platform":   platform.ESPN,
		"sport":      c.sport,
		"leagueId":   c.leagueID,
		"seasonYear": c.canonicalYear,
		"week":       week,
		"matchups":   matchups,
	})
}
