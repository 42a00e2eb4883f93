package espn

import (
	"context"
	"net/url"

	"github.com/flaim-app/fantasy-mcp/internal/platform"
	"github.com/flaim-app/fantasy-mcp/internal/season"
)

// leagueSettings is the narrow projection of the mSettings view. ESPN ships
// far more; we keep only what the tools surface.
type leagueSettings struct {
	ID       int `json:"id"`
	SeasonID int `json:"seasonId"`
	Status   struct {
		CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
		LatestScoringPeriod  int  `json:"latestScoringPeriod"`
		FinalScoringPeriod   int  `json:"finalScoringPeriod"`
		IsActive             bool `json:"isActive"`
	} `json:"status"`
	Settings struct {
		Name            string `json:"name"`
		Size            int    `json:"size"`
		ScoringSettings struct {
			ScoringType string `json:"scoringType"`
		} `json:"scoringSettings"`
		RosterSettings struct {
			LineupSlotCounts map[string]int `json:"lineupSlotCounts"`
		} `json:"rosterSettings"`
		ScheduleSettings struct {
			MatchupPeriodCount int `json:"matchupPeriodCount"`
			PlayoffTeamCount   int `json:"playoffTeamCount"`
		} `json:"scheduleSettings"`
	} `json:"settings"`
}

func (a *Adapter) fetchSettings(ctx context.Context, c *call) (*leagueSettings, error) {
	query := url.Values{}
	query.Set("view", "mSettings")

	var settings leagueSettings
	err := a.client.GetJSON(ctx, Request{
		Sport: c.sport,
		Path:  LeaguePath(c.platformYear, c.leagueID),
		Query: query,
		Creds: c.creds,
	}, &settings)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (a *Adapter) handleLeagueInfo(ctx context.Context, c *call) platform.Result {
	settings, err := a.fetchSettings(ctx, c)
	if err != nil {
		return failFrom(err)
	}

	rosterSlots := map[string]int{}
	for slotID, count := range settings.Settings.RosterSettings.LineupSlotCounts {
		if count <= 0 {
			continue
		}
		id := atoiOr(slotID, -1)
		if id < 0 {
			continue
		}
		rosterSlots[c.maps.SlotName(c.sport, id)] = count
	}

	return platform.OK(map[string]any{
		"platform":                 platform.ESPN,
		"sport":                    c.sport,
		"leagueId":                 c.leagueID,
		"leagueName":               settings.Settings.Name,
		"seasonYear":               c.canonicalYear,
		"seasonLabel":              season.Label(c.canonicalYear, c.sport),
		"size":                     settings.Settings.Size,
		"scoringType":              settings.Settings.ScoringSettings.ScoringType,
		"rosterSlots":              rosterSlots,
		"currentMatchupPeriod":     settings.Status.CurrentMatchupPeriod,
		"latestScoringPeriod":      settings.Status.LatestScoringPeriod,
		"regularSeasonMatchups":    settings.Settings.ScheduleSettings.MatchupPeriodCount,
		"playoffTeamCount":         settings.Settings.ScheduleSettings.PlayoffTeamCount,
		"active":                   settings.Status.IsActive,
	})
}
