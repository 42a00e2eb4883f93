package espn

import (
	"context"
	"sort"
	"strings"

	"github.com/flaim-app/fantasy-mcp/internal/platform"
)

// handleSearchPlayers runs against the cached sport-wide player directory
// rather than a league endpoint, so it works without a league_id.
func (a *Adapter) handleSearchPlayers(ctx context.Context, c *call) platform.Result {
	query := strings.TrimSpace(strings.ToLower(c.params.Query))
	if query == "" {
		return platform.Fail(platform.CodeInternalError, "query is required for search_players")
	}
	limit := clampCount(c.params.Count)

	var positionFilter map[int]bool
	if c.params.Position != "" {
		positionFilter = map[int]bool{}
		for id, name := range c.maps.Positions {
			if name == c.params.Position {
				positionFilter[id] = true
			}
		}
		if len(positionFilter) == 0 {
			return platform.Fail(platform.CodeInternalError,
				"unknown position %q for %s", c.params.Position, c.sport)
		}
	}

	directory, err := a.players.Load(ctx, c.sport, c.canonicalYear, c.creds)
	if err != nil {
		return failFrom(err)
	}

	matches := make([]DirectoryPlayer, 0, limit)
	for _, p := range directory {
		if !strings.Contains(strings.ToLower(p.FullName), query) {
			continue
		}
		if positionFilter != nil && !positionFilter[p.DefaultPositionID] {
			continue
		}
		matches = append(matches, p)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].PercentOwned != matches[j].PercentOwned {
			return matches[i].PercentOwned > matches[j].PercentOwned
		}
		return matches[i].FullName < matches[j].FullName
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	rows := make([]map[string]any, 0, len(matches))
	for _, p := range matches {
		rows = append(rows, map[string]any{
			"playerId":     p.ID,
			"name":         p.FullName,
			"position":     c.maps.PositionName(c.sport, p.DefaultPositionID),
			"proTeam":      c.maps.ProTeamName(p.ProTeamID),
			"percentOwned": p.PercentOwned,
		})
	}

	return platform.OK(map[string]any{
		"platform":   platform.ESPN,
		"sport":      c.sport,
		"seasonYear": c.canonicalYear,
		"query":      c.params.Query,
		"players":    rows,
	})
}
