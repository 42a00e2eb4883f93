// Package authworker is the HTTP client for the external auth service: token
// introspection, per-platform credential retrieval, the league registry, and
// user preferences. The core never persists any of this; every call is
// request-scoped.
package authworker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/flaim-app/fantasy-mcp/internal/telemetry"
)

const (
	// HeaderExpectedResource tells the introspection endpoint which resource
	// identifier the token must be bound to.
	HeaderExpectedResource = "X-Flaim-Expected-Resource"

	leaguesTimeout = 5 * time.Second
)

// ErrNoCredentials is returned when the auth service has no stored
// credentials for the requested platform (HTTP 404).
var ErrNoCredentials = errors.New("no credentials stored for platform")

// ConflictError reports that a league/season row already exists. ExistingID
// is the registry row id to PATCH for a team backfill.
type ConflictError struct {
	ExistingID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("league already registered (id %s)", e.ExistingID)
}

// LimitExceededError reports that the user hit their stored-league quota.
type LimitExceededError struct{}

func (e *LimitExceededError) Error() string { return "league limit exceeded" }

// Introspection is the auth service's verdict on a bearer token.
type Introspection struct {
	Valid  bool   `json:"valid"`
	Scope  string `json:"scope"`
	UserID string `json:"userId,omitempty"`
}

// LeagueConfig is one stored league row. A physical league appears once per
// season.
type LeagueConfig struct {
	Platform   string `json:"platform"`
	Sport      string `json:"sport"`
	LeagueID   string `json:"leagueId"`
	SeasonYear int    `json:"seasonYear"`
	TeamID     string `json:"teamId,omitempty"`
	TeamName   string `json:"teamName,omitempty"`
	LeagueName string `json:"leagueName,omitempty"`
}

// LeaguePointer is a sport-level default league reference in preferences.
type LeaguePointer struct {
	Platform string `json:"platform"`
	LeagueID string `json:"leagueId"`
}

// Preferences holds the user's default-league pointers.
type Preferences struct {
	DefaultSport string                   `json:"defaultSport,omitempty"`
	Defaults     map[string]LeaguePointer `json:"defaults,omitempty"`
}

// ESPNCredentials is the raw ESPN cookie pair. Never logged.
type ESPNCredentials struct {
	SWID string `json:"swid"`
	S2   string `json:"s2"`
}

// Client talks to the auth worker.
type Client struct {
	base string
	http *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Introspect validates a bearer token against an expected resource
// identifier. Any transport failure or non-2xx status is an error; callers
// fail closed.
func (c *Client) Introspect(ctx context.Context, authHeader, expectedResource string) (*Introspection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/auth/introspect", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set(HeaderExpectedResource, expectedResource)
	telemetry.CorrelationFrom(ctx).Apply(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("introspect: status %d", resp.StatusCode)
	}
	var out Introspection
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}
	return &out, nil
}

// ESPNCredentials fetches the caller's raw ESPN cookie pair.
func (c *Client) ESPNCredentials(ctx context.Context, authHeader string) (*ESPNCredentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/credentials/espn?raw=true", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", authHeader)
	telemetry.CorrelationFrom(ctx).Apply(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoCredentials
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("credentials: status %d", resp.StatusCode)
	}
	var out ESPNCredentials
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	return &out, nil
}

// Leagues lists the caller's stored leagues, optionally filtered by platform.
func (c *Client) Leagues(ctx context.Context, authHeader, platform string) ([]LeagueConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, leaguesTimeout)
	defer cancel()

	u := c.base + "/leagues"
	if platform != "" {
		u += "?platform=" + url.QueryEscape(platform)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", authHeader)
	telemetry.CorrelationFrom(ctx).Apply(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("leagues: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("leagues: status %d", resp.StatusCode)
	}
	var out struct {
		Leagues []LeagueConfig `json:"leagues"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("leagues: %w", err)
	}
	return out.Leagues, nil
}

// Preferences fetches the user's default-league pointers. A missing
// preferences document is not an error; callers get an empty value.
func (c *Client) Preferences(ctx context.Context, authHeader string) (*Preferences, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/user/preferences", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", authHeader)
	telemetry.CorrelationFrom(ctx).Apply(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return &Preferences{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("preferences: status %d", resp.StatusCode)
	}
	var out Preferences
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	return &out, nil
}

// AddLeague registers a newly discovered season. A 409 yields *ConflictError
// with the existing row id; a 400 whose body carries code LIMIT_EXCEEDED
// yields *LimitExceededError.
func (c *Client) AddLeague(ctx context.Context, authHeader string, league LeagueConfig) error {
	body, err := json.Marshal(league)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/leagues/add", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("Content-Type", "application/json")
	telemetry.CorrelationFrom(ctx).Apply(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("add league: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode == http.StatusConflict:
		var conflict struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(raw, &conflict)
		if conflict.ID == "" {
			conflict.ID = league.LeagueID
		}
		return &ConflictError{ExistingID: conflict.ID}
	case resp.StatusCode == http.StatusBadRequest:
		var bad struct {
			Code string `json:"code"`
		}
		_ = json.Unmarshal(raw, &bad)
		if bad.Code == "LIMIT_EXCEEDED" {
			return &LimitExceededError{}
		}
		return fmt.Errorf("add league: status 400: %s", raw)
	default:
		return fmt.Errorf("add league: status %d", resp.StatusCode)
	}
}

// UpdateLeagueTeam backfills the user's team on an existing league row.
func (c *Client) UpdateLeagueTeam(ctx context.Context, authHeader, leagueRowID, teamID, teamName string, seasonYear int) error {
	body, err := json.Marshal(map[string]any{
		"teamId":     teamID,
		"teamName":   teamName,
		"seasonYear": seasonYear,
	})
	if err != nil {
		return err
	}
	u := fmt.Sprintf("%s/leagues/%s/team", c.base, url.PathEscape(leagueRowID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("Content-Type", "application/json")
	telemetry.CorrelationFrom(ctx).Apply(req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update league team: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("update league team: status %d", resp.StatusCode)
	}
	return nil
}

// AuthServerMetadataURL is the auth service's RFC 8414 well-known document,
// proxied by the gateway.
func (c *Client) AuthServerMetadataURL(suffix string) string {
	return c.base + "/.well-known/oauth-authorization-server" + suffix
}

// Base returns the configured auth worker origin.
func (c *Client) Base() string { return c.base }
