// Package espn implements the ESPN platform adapter: upstream client, id
// translation tables, per-sport tool handlers, the player directory cache and
// the historical season discovery engine.
package espn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/flaim-app/fantasy-mcp/internal/platform"
)

const (
	defaultBaseURL  = "https://lm-api-reads.fantasy.espn.com"
	upstreamTimeout = 7 * time.Second

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	headerFantasyFilter   = "X-Fantasy-Filter"
	headerFantasySource   = "X-Fantasy-Source"
	headerFantasyPlatform = "X-Fantasy-Platform"
)

var packageLogger = log.Default()

// SetLogger routes package-level warnings (unknown ids, cache degradation)
// through the service logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		packageLogger = l
	}
}

func pkgLogger() *log.Logger { return packageLogger }

// ErrTimeout marks an upstream call that outran the 7s client timeout.
// Callers map it to 504 / "timed out - try again".
var ErrTimeout = errors.New("espn request timed out - try again")

// Credentials is the ESPN cookie pair. Never logged, never cached.
type Credentials struct {
	SWID string
	S2   string
}

// APIError is a classified upstream failure. Its string form is the stable
// "<CODE>: <message>" shape downstream layers split on.
type APIError struct {
	Code    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// CodeOf extracts the stable code from an error, defaulting to ESPN_ERROR.
func CodeOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	if errors.Is(err, ErrTimeout) {
		return platform.CodeESPNAPIError
	}
	return platform.CodeESPNError
}

// StatusOf returns the upstream HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Request describes one upstream call. Path is everything after the game id,
// e.g. "seasons/2025/segments/0/leagues/12345".
type Request struct {
	Sport        string
	Path         string
	Query        url.Values
	Filter       string
	Creds        *Credentials
	RequireCreds bool
}

// Client is the single entry point for all fantasy-platform calls.
type Client struct {
	base string
	http *http.Client
}

func NewClient() *Client {
	return &Client{
		base: defaultBaseURL,
		http: &http.Client{Timeout: upstreamTimeout},
	}
}

// WithBaseURL points the client at a fake upstream. Test hook.
func (c *Client) WithBaseURL(base string) *Client {
	c.base = strings.TrimRight(base, "/")
	return c
}

// LeaguePath builds the per-league path segment for a platform year.
func LeaguePath(platformYear int, leagueID string) string {
	return fmt.Sprintf("seasons/%d/segments/0/leagues/%s", platformYear, url.PathEscape(leagueID))
}

// PlayersPath builds the global player directory path for a platform year.
func PlayersPath(platformYear int) string {
	return fmt.Sprintf("seasons/%d/players", platformYear)
}

// Get performs one upstream call and classifies every failure into the
// stable error taxonomy. No retries at this layer.
func (c *Client) Get(ctx context.Context, r Request) ([]byte, error) {
	maps, ok := MapsFor(r.Sport)
	if !ok {
		return nil, &APIError{Code: platform.CodeSportNotSupported, Message: fmt.Sprintf("unsupported sport %q", r.Sport)}
	}
	if r.RequireCreds && r.Creds == nil {
		return nil, &APIError{Code: platform.CodeESPNCredentialsNotFound, Message: "no ESPN credentials on file - connect your ESPN account first"}
	}

	u := fmt.Sprintf("%s/apis/v3/games/%s/%s", c.base, maps.GameID, r.Path)
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(headerFantasySource, "kona")
	req.Header.Set(headerFantasyPlatform, "kona-PROD")
	if r.Filter != "" {
		req.Header.Set(headerFantasyFilter, r.Filter)
	}
	if r.Creds != nil {
		req.Header.Set("Cookie", fmt.Sprintf("SWID=%s; espn_s2=%s", r.Creds.SWID, r.Creds.S2))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, fmt.Errorf("%s %s: %w", r.Sport, r.Path, ErrTimeout)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s %s: %w", r.Sport, r.Path, ErrTimeout)
		}
		return nil, &APIError{Code: platform.CodeESPNAPIError, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Code: platform.CodeESPNAPIError, Status: resp.StatusCode, Message: err.Error()}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if r.Creds != nil {
			return nil, &APIError{Code: platform.CodeESPNCookiesExpired, Status: 401, Message: "ESPN cookies expired - reconnect your ESPN account"}
		}
		return nil, &APIError{Code: platform.CodeESPNAuthRequired, Status: 401, Message: "this league requires ESPN credentials"}
	case resp.StatusCode == http.StatusForbidden:
		return nil, &APIError{Code: platform.CodeESPNAccessDenied, Status: 403, Message: "access to this league was denied"}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &APIError{Code: platform.CodeESPNNotFound, Status: 404, Message: "league or season not found"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &APIError{Code: platform.CodeESPNRateLimit, Status: 429, Message: "ESPN rate limit hit - slow down"}
	case resp.StatusCode >= 500:
		return nil, &APIError{Code: platform.CodeESPNAPIError, Status: resp.StatusCode, Message: fmt.Sprintf("ESPN returned status %d", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &APIError{Code: platform.CodeESPNAPIError, Status: resp.StatusCode, Message: fmt.Sprintf("ESPN returned status %d", resp.StatusCode)}
	}

	// ESPN serves its login page with a 200 when cookies are bad.
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "<") {
		return nil, &APIError{Code: platform.CodeESPNAuthFailed, Status: resp.StatusCode, Message: "ESPN returned HTML instead of JSON (login required)"}
	}

	return body, nil
}

// GetJSON performs Get and decodes into out, classifying decode failures.
func (c *Client) GetJSON(ctx context.Context, r Request, out any) error {
	body, err := c.Get(ctx, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Code: platform.CodeESPNInvalidResponse, Message: fmt.Sprintf("could not parse ESPN response: %v", err)}
	}
	return nil
}
