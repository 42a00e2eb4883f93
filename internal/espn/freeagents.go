package espn

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/flaim-app/fantasy-mcp/internal/platform"
)

const (
	freeAgentDefaultCount = 25
	freeAgentMaxCount     = 100
)

// faFilter mirrors the X-Fantasy-Filter JSON ESPN's own web client sends for
// the add-player screen. The secondary draft-rank sort keeps ties stable.
type faFilter struct {
	Players struct {
		FilterStatus struct {
			Value []string `json:"value"`
		} `json:"filterStatus"`
		FilterSlotIds *struct {
			Value []int `json:"value"`
		} `json:"filterSlotIds,omitempty"`
		SortPercOwned struct {
			SortPriority int  `json:"sortPriority"`
			SortAsc      bool `json:"sortAsc"`
		} `json:"sortPercOwned"`
		SortDraftRanks struct {
			SortPriority int    `json:"sortPriority"`
			SortAsc      bool   `json:"sortAsc"`
			Value        string `json:"value"`
		} `json:"sortDraftRanks"`
		Limit int `json:"limit"`
	} `json:"players"`
}

func buildFreeAgentFilter(slots []int, limit int) string {
	var f faFilter
	f.Players.FilterStatus.Value = []string{"FREEAGENT", "WAIVERS"}
	if len(slots) > 0 {
		f.Players.FilterSlotIds = &struct {
			Value []int `json:"value"`
		}{Value: slots}
	}
	f.Players.SortPercOwned.SortPriority = 1
	f.Players.SortPercOwned.SortAsc = false
	f.Players.SortDraftRanks.SortPriority = 100
	f.Players.SortDraftRanks.SortAsc = true
	f.Players.SortDraftRanks.Value = "STANDARD"
	f.Players.Limit = limit

	raw, _ := json.Marshal(f)
	return string(raw)
}

func clampCount(count int) int {
	switch {
	case count <= 0:
		return freeAgentDefaultCount
	case count > freeAgentMaxCount:
		return freeAgentMaxCount
	default:
		return count
	}
}

func (a *Adapter) handleFreeAgents(ctx context.Context, c *call) platform.Result {
	if denied := c.requireCreds(); denied != nil {
		return *denied
	}

	limit := clampCount(c.params.Count)
	// An unrecognized position resolves to no slot restriction, same as ALL.
	slots := c.maps.SlotsForPosition(c.params.Position)

	query := url.Values{}
	query.Set("view", "kona_player_info")

	var payload struct {
		Players []struct {
			ID       int    `json:"id"`
			OnTeamID int    `json:"onTeamId"`
			Status   string `json:"status"`
			Player   struct {
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
		} `json:"players"`
	}
	err := a.client.GetJSON(ctx, Request{
		Sport:        c.sport,
		Path:         LeaguePath(c.platformYear, c.leagueID),
		Query:        query,
		Filter:       buildFreeAgentFilter(slots, limit),
		Creds:        c.creds,
		RequireCreds: true,
	}, &payload)
	if err != nil {
		return failFrom(err)
	}

	players := make([]map[string]any, 0, len(payload.Players))
	for _, entry := range payload.Players {
		p := entry.Player
		row := map[string]any{
			"playerId":          entry.ID,
			"name":              p.FullName,
			"position":          c.maps.PositionName(c.sport, p.DefaultPositionID),
			"eligiblePositions": c.maps.EligiblePositions(p.EligibleSlots),
			"proTeam":           c.maps.ProTeamName(p.ProTeamID),
			"status":            entry.Status,
			"percentOwned":      p.Ownership.PercentOwned,
			"percentStarted":    p.Ownership.PercentStarted,
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
		"count":      limit,
		"players":    players,
	}
	if c.params.Position != "" {
		out["position"] = c.params.Position
	}
	return platform.OK(out)
}
