package espn

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/flaim-app/fantasy-mcp/internal/authworker"
	"github.com/flaim-app/fantasy-mcp/internal/platform"
	"github.com/flaim-app/fantasy-mcp/internal/season"
)

// Adapter translates gateway tool calls into ESPN upstream requests and
// shapes the numeric-id-heavy responses into readable payloads.
type Adapter struct {
	client  *Client
	auth    *authworker.Client
	players *PlayerDirectory
}

func NewAdapter(client *Client, auth *authworker.Client, players *PlayerDirectory) *Adapter {
	return &Adapter{client: client, auth: auth, players: players}
}

// Client exposes the upstream client for health probes.
func (a *Adapter) Client() *Client { return a.client }

// call carries everything one handler invocation needs, resolved once at
// dispatch: no handler re-derives years or re-fetches credentials.
type call struct {
	params        platform.ToolParams
	sport         string
	leagueID      string
	canonicalYear int
	platformYear  int
	maps          *SportMaps
	creds         *Credentials
	authHeader    string
}

type handlerFunc func(ctx context.Context, c *call) platform.Result

func (a *Adapter) handlers() map[string]handlerFunc {
	return map[string]handlerFunc{
		"get_league_info":  a.handleLeagueInfo,
		"get_standings":    a.handleStandings,
		"get_matchups":     a.handleMatchups,
		"get_roster":       a.handleRoster,
		"get_free_agents":  a.handleFreeAgents,
		"get_transactions": a.handleTransactions,
		"search_players":   a.handleSearchPlayers,
	}
}

// Execute dispatches one tool call. All failures come back as tagged
// results; nothing is thrown past this boundary.
func (a *Adapter) Execute(ctx context.Context, tool string, params platform.ToolParams, authHeader string) platform.Result {
	handler, ok := a.handlers()[tool]
	if !ok {
		return platform.Fail(platform.CodeUnknownTool, "unknown tool %q", tool)
	}

	if !platform.KnownSport(params.Sport) {
		return platform.Fail(platform.CodeSportNotSupported, "unsupported sport %q", params.Sport)
	}
	maps, _ := MapsFor(params.Sport)

	if params.LeagueID == "" && tool != "search_players" {
		return platform.Fail(platform.CodeInternalError, "league_id is required")
	}

	canonical := params.SeasonYear
	if canonical == 0 {
		canonical = season.Current(params.Sport, time.Now())
	}

	c := &call{
		params:        params,
		sport:         params.Sport,
		leagueID:      params.LeagueID,
		canonicalYear: canonical,
		platformYear:  ToPlatformYear(canonical, params.Sport),
		maps:          maps,
		authHeader:    authHeader,
	}

	if authHeader != "" {
		creds, err := a.auth.ESPNCredentials(ctx, authHeader)
		switch {
		case err == nil:
			c.creds = &Credentials{SWID: creds.SWID, S2: creds.S2}
		case errors.Is(err, authworker.ErrNoCredentials):
			// Public-league attempt for read-only views; credential-required
			// handlers fail with ESPN_CREDENTIALS_NOT_FOUND themselves.
		default:
			pkgLogger().Warn("credential fetch failed", "err", err)
		}
	}

	return handler(ctx, c)
}

// requireCreds is the guard for handlers that cannot run against public
// league endpoints.
func (c *call) requireCreds() *platform.Result {
	if c.creds == nil {
		r := platform.Fail(platform.CodeESPNCredentialsNotFound,
			"no ESPN credentials on file - connect your ESPN account first")
		return &r
	}
	return nil
}

// failFrom converts a classified upstream error into a tagged result,
// stripping the code prefix out of the message so it is not doubled.
func failFrom(err error) platform.Result {
	code := CodeOf(err)
	msg := err.Error()
	if idx := strings.Index(msg, code+": "); idx >= 0 {
		msg = msg[idx+len(code)+2:]
	}
	if errors.Is(err, ErrTimeout) {
		msg = "timed out - try again"
	}
	return platform.Fail(code, "%s", msg)
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// teamDisplayName prefers "<location> <nickname>", falls back to the raw
// name, then "Team <id>".
func teamDisplayName(location, nickname, name string, id int) string {
	full := strings.TrimSpace(strings.TrimSpace(location) + " " + strings.TrimSpace(nickname))
	if full != "" {
		return full
	}
	if strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	return fmt.Sprintf("Team %d", id)
}
