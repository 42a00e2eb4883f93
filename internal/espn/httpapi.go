package espn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flaim-app/fantasy-mcp/internal/authworker"
	"github.com/flaim-app/fantasy-mcp/internal/platform"
	"github.com/flaim-app/fantasy-mcp/internal/season"
	"github.com/flaim-app/fantasy-mcp/internal/telemetry"
)

// Server is the adapter's HTTP surface. The gateway is its only intended
// caller; every route except /health requires the forwarded bearer.
type Server struct {
	adapter *Adapter
	auth    *authworker.Client
	emitter *telemetry.Emitter
	logger  *log.Logger
	version string
}

func NewServer(adapter *Adapter, auth *authworker.Client, emitter *telemetry.Emitter, logger *log.Logger, version string) *Server {
	return &Server{adapter: adapter, auth: auth, emitter: emitter, logger: logger, version: version}
}

// Handler builds the adapter mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /execute", s.handleExecute)
	mux.HandleFunc("POST /onboarding/initialize", s.handleOnboardingInitialize)
	mux.HandleFunc("POST /onboarding/discover-seasons", s.handleDiscoverSeasons)
	return telemetry.Middleware(s.emitter, mux)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"service":  "espn-adapter",
		"version":  s.version,
		"platform": platform.ESPN,
		"sports":   platform.Sports,
	})
}

func bearerFrom(r *http.Request, bodyHeader string) string {
	if bodyHeader != "" {
		return bodyHeader
	}
	return r.Header.Get("Authorization")
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req platform.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, platform.Fail(platform.CodeInternalError, "invalid request body: %v", err))
		return
	}
	if req.Tool == "" {
		writeJSON(w, http.StatusBadRequest, platform.Fail(platform.CodeInternalError, "tool is required"))
		return
	}

	start := time.Now()
	result := s.adapter.Execute(r.Context(), req.Tool, req.Params, bearerFrom(r, req.AuthHeader))

	c := telemetry.CorrelationFrom(r.Context())
	status := "ok"
	if !result.Success {
		status = "error"
	}
	s.emitter.Emit(c, "adapter_execute", status, "tool executed",
		time.Since(start).Milliseconds(),
		"tool", req.Tool, "sport", req.Params.Sport, "code", result.Code)

	if result.Code == platform.CodeESPNAPIError && strings.Contains(result.Error, "timed out") {
		writeJSON(w, http.StatusGatewayTimeout, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// credentials resolves the ESPN cookie pair for a bearer, distinguishing
// "no credentials stored" from worker failures.
func (s *Server) credentials(ctx context.Context, authHeader string) (*Credentials, platform.Result, bool) {
	if authHeader == "" {
		return nil, platform.Fail(platform.CodeAuthMissing, "Authorization header is required"), false
	}
	creds, err := s.auth.ESPNCredentials(ctx, authHeader)
	if err != nil {
		if errors.Is(err, authworker.ErrNoCredentials) {
			return nil, platform.Fail(platform.CodeESPNCredentialsNotFound,
				"no ESPN credentials on file - connect your ESPN account first"), false
		}
		return nil, platform.Fail(platform.CodeInternalError, "credential lookup failed: %v", err), false
	}
	return &Credentials{SWID: creds.SWID, S2: creds.S2}, platform.Result{}, true
}

type onboardingInitRequest struct {
	Sport      string `json:"sport"`
	LeagueID   string `json:"leagueId"`
	SeasonYear int    `json:"seasonYear,omitempty"`
}

// handleOnboardingInitialize verifies a league is reachable with the user's
// credentials and returns its teams so the UI can ask which one is theirs.
func (s *Server) handleOnboardingInitialize(w http.ResponseWriter, r *http.Request) {
	var req onboardingInitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, platform.Fail(platform.CodeInternalError, "invalid request body: %v", err))
		return
	}
	if !platform.KnownSport(req.Sport) {
		writeJSON(w, http.StatusBadRequest, platform.Fail(platform.CodeSportNotSupported, "unsupported sport %q", req.Sport))
		return
	}
	if req.LeagueID == "" {
		writeJSON(w, http.StatusBadRequest, platform.Fail(platform.CodeInternalError, "leagueId is required"))
		return
	}

	creds, failure, ok := s.credentials(r.Context(), bearerFrom(r, ""))
	if !ok {
		writeJSON(w, statusForCode(failure.Code), failure)
		return
	}

	year := req.SeasonYear
	if year == 0 {
		year = season.Current(req.Sport, time.Now())
	}

	info, err := s.adapter.BasicLeagueInfo(r.Context(), req.Sport, req.LeagueID, year, creds)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, failFrom(err))
		return
	}
	if !info.Success {
		writeJSON(w, http.StatusOK, platform.Result{Success: false, Error: info.Error, Code: info.Code})
		return
	}
	writeJSON(w, http.StatusOK, platform.OK(info))
}

type discoverSeasonsRequest struct {
	Sport           string `json:"sport"`
	LeagueID        string `json:"leagueId"`
	BaseTeamID      string `json:"baseTeamId"`
	ExistingSeasons []int  `json:"existingSeasons,omitempty"`
}

func (s *Server) handleDiscoverSeasons(w http.ResponseWriter, r *http.Request) {
	var req discoverSeasonsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, platform.Fail(platform.CodeInternalError, "invalid request body: %v", err))
		return
	}
	if !platform.KnownSport(req.Sport) {
		writeJSON(w, http.StatusBadRequest, platform.Fail(platform.CodeSportNotSupported, "unsupported sport %q", req.Sport))
		return
	}
	if req.LeagueID == "" {
		writeJSON(w, http.StatusBadRequest, platform.Fail(platform.CodeInternalError, "leagueId is required"))
		return
	}

	authHeader := bearerFrom(r, "")
	creds, failure, ok := s.credentials(r.Context(), authHeader)
	if !ok {
		writeJSON(w, statusForCode(failure.Code), failure)
		return
	}

	start := time.Now()
	result := s.adapter.DiscoverSeasons(r.Context(), DiscoveryInput{
		Sport:           req.Sport,
		LeagueID:        req.LeagueID,
		BaseTeamID:      req.BaseTeamID,
		ExistingSeasons: req.ExistingSeasons,
		Creds:           creds,
		AuthHeader:      authHeader,
	})

	c := telemetry.CorrelationFrom(r.Context())
	status := "ok"
	if !result.Success {
		status = "error"
	}
	s.emitter.Emit(c, "season_discovery", status, "discovery run finished",
		time.Since(start).Milliseconds(),
		"league", req.LeagueID, "sport", req.Sport,
		"discovered", len(result.Discovered), "skipped", result.Skipped,
		"rate_limited", result.RateLimited, "code", result.Code)

	writeJSON(w, http.StatusOK, result)
}

func statusForCode(code string) int {
	switch code {
	case platform.CodeAuthMissing, platform.CodeAuthFailed:
		return http.StatusUnauthorized
	case platform.CodeESPNCredentialsNotFound:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}
