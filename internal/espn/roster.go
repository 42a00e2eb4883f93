package espn

import (
	"context"
	"net/url"
	"strconv"

	"github.com/flaim-app/fantasy-mcp/internal/platform"
)

type rosterPlayer struct {
	LineupSlotID    int `json:"lineupSlotId"`
	PlayerPoolEntry struct {
		Player struct {
			ID                int    `json:"id"`
			FullName          string `json:"fullName"`
			DefaultPositionID int    `json:"defaultPositionId"`
			EligibleSlots     []int  `json:"eligibleSlots"`
			ProTeamID         int    `json:"proTeamId"`
			InjuryStatus      string `json:"injuryStatus"`
			Ownership         struct {
				PercentOwned   float64 `json:"percentOwned"`
				PercentStarted float64 `json:"percentStarted"`
			} `json:"ownership"`
		} `json:"player"`
		AppliedStatTotal float64 `json:"appliedStatTotal"`
	} `json:"playerPoolEntry"`
}

// handleRoster needs both a team id and credentials: ESPN serves roster views
// for private leagues only to members.
func (a *Adapter) handleRoster(ctx context.Context, c *call) platform.Result {
	if c.params.TeamID == "" {
		return platform.Fail(platform.CodeTeamIDMissing,
			"team_id is required for get_roster - call get_user_session or get_standings to find yours")
	}
	if denied := c.requireCreds(); denied != nil {
		return *denied
	}
	teamID, err := strconv.Atoi(c.params.TeamID)
	if err != nil {
		return platform.Fail(platform.CodeInternalError, "team_id %q is not numeric", c.params.TeamID)
	}

	query := url.Values{}
	query["view"] = []string{"mRoster", "mTeam"}
	if c.params.Week > 0 {
		query.Set("scoringPeriodId", strconv.Itoa(c.params.Week))
	}

	var payload struct {
		Teams []struct {
			teamEntry
			Roster struct {
				Entries []rosterPlayer `json:"entries"`
			} `json:"roster"`
		} `json:"teams"`
	}
	if err := a.client.GetJSON(ctx, Request{
		Sport:        c.sport,
		Path:         LeaguePath(c.platformYear, c.leagueID),
		Query:        query,
		Creds:        c.creds,
		RequireCreds: true,
	}, &payload); err != nil {
		return failFrom(err)
	}

	for i := range payload.Teams {
		team := &payload.Teams[i]
		if team.ID != teamID {
			continue
		}

		players := make([]map[string]any, 0, len(team.Roster.Entries))
		for _, entry := range team.Roster.Entries {
			p := entry.PlayerPoolEntry.Player
			row := map[string]any{
				"playerId":          p.ID,
				"name":              p.FullName,
				"position":          c.maps.PositionName(c.sport, p.DefaultPositionID),
				"lineupSlot":        c.maps.SlotName(c.sport, entry.LineupSlotID),
				"eligiblePositions": c.maps.EligiblePositions(p.EligibleSlots),
				"proTeam":           c.maps.ProTeamName(p.ProTeamID),
				"percentOwned":      p.Ownership.PercentOwned,
				"percentStarted":    p.Ownership.PercentStarted,
				"totalPoints":       entry.PlayerPoolEntry.AppliedStatTotal,
			}
			if p.InjuryStatus != "" && p.InjuryStatus != "ACTIVE" {
				row["injuryStatus"] = p.InjuryStatus
			}
			players = append(players, row)
		}

		out := map[string]any{
			"platform":   platform.ESPN,
			"sport":      c.sport,
			"leagueId":   c.leagueID,
			"seasonYear": c.canonicalYear,
			"teamId":     c.params.TeamID,
			"teamName":   team.displayName(),
			"players":    players,
		}
		if c.params.Week > 0 {
			out["week"] = c.params.Week
		}
		return platform.OK(out)
	}

	return platform.Fail(platform.CodeESPNNotFound, "team %s not found in league %s", c.params.TeamID, c.leagueID)
}
