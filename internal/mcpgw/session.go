package mcpgw

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flaim-app/fantasy-mcp/internal/authworker"
	"github.com/flaim-app/fantasy-mcp/internal/platform"
	"github.com/flaim-app/fantasy-mcp/internal/season"
)

// activeWindowYears defines "active": a league with a season within the last
// two calendar years still matters to the user; everything else moves to
// get_ancient_history.
const activeWindowYears = 2

// leagueSeason is one stored (league, season) row flattened for output.
type leagueSeason struct {
	SeasonYear int    `json:"seasonYear"`
	TeamID     string `json:"teamId,omitempty"`
	TeamName   string `json:"teamName,omitempty"`
}

type leagueGroup struct {
	Platform   string         `json:"platform"`
	Sport      string         `json:"sport"`
	LeagueID   string         `json:"leagueId"`
	LeagueName string         `json:"leagueName,omitempty"`
	IsDefault  bool           `json:"isDefault,omitempty"`
	Seasons    []leagueSeason `json:"seasons"`
}

// groupKey identifies one physical league. Yahoo rows are keyed by league
// name because Yahoo league ids rotate every season.
func groupKey(row authworker.LeagueConfig) string {
	if row.Platform == platform.Yahoo && row.LeagueName != "" {
		return row.Platform + "/" + row.LeagueName
	}
	return row.Platform + "/" + row.LeagueID
}

// fetchAllLeagues pulls the stored leagues for every wired platform in
// parallel, or for a single platform when a filter is given. A failing
// platform drops out rather than failing the session.
func (s *Server) fetchAllLeagues(ctx context.Context, authHeader, platformFilter string) []authworker.LeagueConfig {
	if platformFilter != "" {
		leagues, err := s.auth.Leagues(ctx, authHeader, platformFilter)
		if err != nil {
			s.logger.Warn("league fetch failed", "platform", platformFilter, "err", err)
			return nil
		}
		return leagues
	}

	var mu sync.Mutex
	var rows []authworker.LeagueConfig

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range s.router.Platforms() {
		g.Go(func() error {
			leagues, err := s.auth.Leagues(gctx, authHeader, p)
			if err != nil {
				s.logger.Warn("league fetch failed", "platform", p, "err", err)
				return nil
			}
			mu.Lock()
			rows = append(rows, leagues...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return rows
}

func groupLeagues(rows []authworker.LeagueConfig) []*leagueGroup {
	byKey := map[string]*leagueGroup{}
	var order []string
	for _, row := range rows {
		key := groupKey(row)
		group, ok := byKey[key]
		if !ok {
			group = &leagueGroup{
				Platform:   row.Platform,
				Sport:      row.Sport,
				LeagueID:   row.LeagueID,
				LeagueName: row.LeagueName,
			}
			byKey[key] = group
			order = append(order, key)
		}
		if group.LeagueName == "" {
			group.LeagueName = row.LeagueName
		}
		group.Seasons = append(group.Seasons, leagueSeason{
			SeasonYear: row.SeasonYear,
			TeamID:     row.TeamID,
			TeamName:   row.TeamName,
		})
	}

	groups := make([]*leagueGroup, 0, len(order))
	for _, key := range order {
		group := byKey[key]
		sort.Slice(group.Seasons, func(i, j int) bool {
			return group.Seasons[i].SeasonYear > group.Seasons[j].SeasonYear
		})
		groups = append(groups, group)
	}
	return groups
}

// splitSeasons partitions a group's seasons (already newest-first) into the
// active slice and the remainder. Active is at most two seasons, and only
// seasons at or past the threshold qualify; every season not taken stays in
// the remainder so the two views cover the stored rows exactly.
func splitSeasons(seasons []leagueSeason, threshold int) (active, rest []leagueSeason) {
	for _, ls := range seasons {
		if ls.SeasonYear >= threshold && len(active) < activeWindowYears {
			active = append(active, ls)
			continue
		}
		rest = append(rest, ls)
	}
	return active, rest
}

func (s *Server) markDefaults(groups []*leagueGroup, prefs *authworker.Preferences) {
	if prefs == nil || len(prefs.Defaults) == 0 {
		return
	}
	for _, group := range groups {
		if ptr, ok := prefs.Defaults[group.Sport]; ok {
			if ptr.Platform == group.Platform && ptr.LeagueID == group.LeagueID {
				group.IsDefault = true
			}
		}
	}
}

// primaryDefault resolves the league the user most likely means with no
// qualifier at all: the default league of their default sport, then any
// marked default, then simply the first active league.
func primaryDefault(groups []*leagueGroup, prefs *authworker.Preferences) *leagueGroup {
	if len(groups) == 0 {
		return nil
	}
	if prefs != nil && prefs.DefaultSport != "" {
		for _, group := range groups {
			if group.IsDefault && group.Sport == prefs.DefaultSport {
				return group
			}
		}
	}
	for _, group := range groups {
		if group.IsDefault {
			return group
		}
	}
	return groups[0]
}

func currentSeasons(now time.Time) map[string]map[string]any {
	out := make(map[string]map[string]any, len(platform.Sports))
	for _, sport := range platform.Sports {
		year := season.Current(sport, now)
		out[sport] = map[string]any{
			"year":  year,
			"label": season.Label(year, sport),
		}
	}
	return out
}

const sessionInstructions = "Use these leagues for every tool call: pass platform, sport, league_id and the most recent seasonYear unless the user asks about a specific past season. teamId identifies the user's own team. Leagues marked isDefault are what the user means when they name a sport without a league. For seasons older than the ones listed here, call get_ancient_history."

// handleUserSession builds the model-facing snapshot of who the user is:
// active leagues (at most the two most recent seasons each), defaults, and
// the current season per sport.
func (s *Server) handleUserSession(ctx context.Context, authHeader string) platform.Result {
	now := time.Now()
	threshold := now.Year() - activeWindowYears

	rows := s.fetchAllLeagues(ctx, authHeader, "")
	groups := groupLeagues(rows)

	prefs, err := s.auth.Preferences(ctx, authHeader)
	if err != nil {
		s.logger.Warn("preferences fetch failed", "err", err)
		prefs = &authworker.Preferences{}
	}
	s.markDefaults(groups, prefs)

	active := make([]*leagueGroup, 0, len(groups))
	for _, group := range groups {
		recent, _ := splitSeasons(group.Seasons, threshold)
		if len(recent) == 0 {
			continue
		}
		trimmed := *group
		trimmed.Seasons = recent
		active = append(active, &trimmed)
	}

	out := map[string]any{
		"leagues":        active,
		"defaultSport":   prefs.DefaultSport,
		"currentDate":    now.Format("2006-01-02"),
		"currentSeasons": currentSeasons(now),
		"instructions":   sessionInstructions,
	}
	if primary := primaryDefault(active, prefs); primary != nil {
		out["defaultLeague"] = map[string]any{
			"platform":   primary.Platform,
			"sport":      primary.Sport,
			"leagueId":   primary.LeagueID,
			"leagueName": primary.LeagueName,
		}
	}
	return platform.OK(out)
}

// handleAncientHistory returns every season handleUserSession withholds:
// anything beyond a league's two most recent active seasons, and every season
// of a league with no active season at all. Together the two tools cover the
// full registry.
func (s *Server) handleAncientHistory(ctx context.Context, authHeader, platformFilter string) platform.Result {
	now := time.Now()
	threshold := now.Year() - activeWindowYears

	rows := s.fetchAllLeagues(ctx, authHeader, platformFilter)
	groups := groupLeagues(rows)

	ancient := make([]*leagueGroup, 0, len(groups))
	for _, group := range groups {
		_, old := splitSeasons(group.Seasons, threshold)
		if len(old) == 0 {
			continue
		}
		trimmed := *group
		trimmed.Seasons = old
		ancient = append(ancient, &trimmed)
	}

	out := map[string]any{
		"leagues":         ancient,
		"activeThreshold": threshold,
	}
	if platformFilter != "" {
		out["platform"] = platformFilter
	}
	return platform.OK(out)
}
