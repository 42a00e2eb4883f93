package mcpgw

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/flaim-app/fantasy-mcp/internal/authworker"
	"github.com/flaim-app/fantasy-mcp/internal/config"
	"github.com/flaim-app/fantasy-mcp/internal/telemetry"
)

// Server wires the gateway together: MCP transport, auth gate, tool registry
// and the adapter router.
type Server struct {
	cfg     config.Config
	auth    *authworker.Client
	router  *Router
	emitter *telemetry.Emitter
	logger  *log.Logger
	version string

	tools []toolInfo

	mcpJSON http.Handler
	mcpSSE  http.Handler
}

func NewServer(cfg config.Config, auth *authworker.Client, router *Router, emitter *telemetry.Emitter, logger *log.Logger, version string) *Server {
	s := &Server{
		cfg:     cfg,
		auth:    auth,
		router:  router,
		emitter: emitter,
		logger:  logger,
		version: version,
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "fantasy-sports",
		Title:   "Fantasy Sports",
		Version: version,
	}, nil)
	s.registerTools(mcpServer)

	getServer := func(*http.Request) *mcp.Server { return mcpServer }
	// Two transports over one server: some clients can only consume plain
	// JSON responses, others expect SSE frames. The Accept header picks.
	s.mcpJSON = mcp.NewStreamableHTTPHandler(getServer, &mcp.StreamableHTTPOptions{
		JSONResponse: true,
		Stateless:    true,
	})
	s.mcpSSE = mcp.NewStreamableHTTPHandler(getServer, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})
	return s
}

// handleMCP normalizes the Accept header to what the streamable transport
// insists on, then serves the framing the client actually asked for.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	accept := r.Header.Get("Accept")
	wantsSSE := strings.Contains(accept, "text/event-stream")
	r.Header.Set("Accept", "application/json, text/event-stream")

	if wantsSSE {
		s.mcpSSE.ServeHTTP(w, r)
		return
	}
	s.mcpJSON.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"service":   "mcp-gateway",
		"version":   s.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"bindings":  []string{mcpPath, mcpFantasyPath},
	}

	healthy := true
	for _, p := range s.router.Platforms() {
		state := "ok"
		if err := s.router.Health(r.Context(), p); err != nil {
			state = "unreachable"
			healthy = false
		}
		body[p+"_status"] = state
	}

	status := http.StatusOK
	body["status"] = "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"tools": s.tools,
		"scope": ScopeRead,
	})
}

// handleAppsChallenge serves the static verification token some MCP app
// directories require before listing a server.
func (s *Server) handleAppsChallenge(w http.ResponseWriter, _ *http.Request) {
	if s.cfg.OpenAIAppsChallengeToken == "" {
		http.NotFound(w, nil)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(s.cfg.OpenAIAppsChallengeToken))
}

func (s *Server) redirectToSite(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.cfg.PublicSiteURL, http.StatusFound)
}

// Handler builds the gateway mux.
func (s *Server) Handler() http.Handler {
	gatedMCP := s.authGate(http.HandlerFunc(s.handleMCP))

	mux := http.NewServeMux()
	mux.Handle(mcpPath, gatedMCP)
	mux.Handle(mcpFantasyPath, gatedMCP)

	mux.HandleFunc("GET "+wellKnownResource, s.handleProtectedResourceMetadata)
	mux.HandleFunc("GET /fantasy"+wellKnownResource, s.handleProtectedResourceMetadata)
	mux.HandleFunc("GET "+mcpPath+wellKnownAuth, s.handleAuthServerMetadata)
	mux.HandleFunc("GET "+mcpPath+wellKnownAuth+"/", s.handleAuthServerMetadata)
	mux.HandleFunc("GET "+mcpFantasyPath+wellKnownAuth, s.handleAuthServerMetadata)
	mux.HandleFunc("GET "+mcpFantasyPath+wellKnownAuth+"/", s.handleAuthServerMetadata)
	mux.HandleFunc("GET /.well-known/openai-apps-challenge", s.handleAppsChallenge)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /tools", s.handleTools)

	mux.HandleFunc("GET /favicon.ico", s.redirectToSite)
	mux.HandleFunc("GET /apple-icon.png", s.redirectToSite)
	mux.HandleFunc("GET /{$}", s.redirectToSite)

	return telemetry.Middleware(s.emitter, mux)
}
