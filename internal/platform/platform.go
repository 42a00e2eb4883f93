// Package platform defines the wire types shared between the MCP gateway and
// the platform adapters: the canonical tool parameter set, the tagged result
// envelope, and the stable error codes both sides agree on.
package platform

import "fmt"

// Supported platform identifiers.
const (
	ESPN    = "espn"
	Yahoo   = "yahoo"
	Sleeper = "sleeper"
)

// Supported sports.
const (
	Football   = "football"
	Baseball   = "baseball"
	Basketball = "basketball"
	Hockey     = "hockey"
)

// Sports lists every sport the adapters understand, in display order.
var Sports = []string{Football, Baseball, Basketball, Hockey}

// KnownSport reports whether s is one of the supported sports.
func KnownSport(s string) bool {
	switch s {
	case Football, Baseball, Basketball, Hockey:
		return true
	}
	return false
}

// Stable error codes. Handlers translate every upstream failure into one of
// these; the MCP layer surfaces them as "<CODE>: <message>" strings.
const (
	CodePlatformNotSupported = "PLATFORM_NOT_SUPPORTED"
	CodeSportNotSupported    = "SPORT_NOT_SUPPORTED"
	CodeUnknownTool          = "UNKNOWN_TOOL"
	CodeRoutingError         = "ROUTING_ERROR"
	CodePlatformError        = "PLATFORM_ERROR"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeAuthMissing          = "AUTH_MISSING"
	CodeAuthFailed           = "AUTH_FAILED"
	CodeCredentialsMissing   = "CREDENTIALS_MISSING"
	CodeTeamIDMissing        = "TEAM_ID_MISSING"
	CodeLimitExceeded        = "LIMIT_EXCEEDED"

	CodeESPNAuthRequired         = "ESPN_AUTH_REQUIRED"
	CodeESPNCredentialsNotFound  = "ESPN_CREDENTIALS_NOT_FOUND"
	CodeESPNCookiesExpired       = "ESPN_COOKIES_EXPIRED"
	CodeESPNAuthFailed           = "ESPN_AUTH_FAILED"
	CodeESPNAccessDenied         = "ESPN_ACCESS_DENIED"
	CodeESPNNotFound             = "ESPN_NOT_FOUND"
	CodeESPNRateLimit            = "ESPN_RATE_LIMIT"
	CodeESPNAPIError             = "ESPN_API_ERROR"
	CodeESPNInvalidResponse      = "ESPN_INVALID_RESPONSE"
	CodeESPNError                = "ESPN_ERROR"
)

// ToolParams is the canonical parameter set every public tool accepts.
// season_year is always the canonical start year at the gateway boundary;
// adapters translate to platform-native years internally.
type ToolParams struct {
	Platform   string `json:"platform,omitempty"`
	Sport      string `json:"sport,omitempty"`
	LeagueID   string `json:"league_id,omitempty"`
	SeasonYear int    `json:"season_year,omitempty"`
	TeamID     string `json:"team_id,omitempty"`
	Week       int    `json:"week,omitempty"`
	Position   string `json:"position,omitempty"`
	Count      int    `json:"count,omitempty"`
	Query      string `json:"query,omitempty"`
	Type       string `json:"type,omitempty"`
}

// Result is the tagged envelope adapters return and the gateway forwards
// verbatim. Failures carry a human message plus a stable code; they are never
// raised as errors across the MCP boundary.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// OK wraps data in a successful result.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail builds a failed result with a stable code and message.
func Fail(code, format string, args ...any) Result {
	return Result{Success: false, Code: code, Error: fmt.Sprintf(format, args...)}
}

// ExecuteRequest is the body of the adapter's POST /execute endpoint.
type ExecuteRequest struct {
	Tool       string     `json:"tool"`
	Params     ToolParams `json:"params"`
	AuthHeader string     `json:"authHeader,omitempty"`
}
