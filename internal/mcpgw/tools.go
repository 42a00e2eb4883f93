package mcpgw

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/flaim-app/fantasy-mcp/internal/platform"
	"github.com/flaim-app/fantasy-mcp/internal/telemetry"
)

// toolInfo feeds the plain /tools listing endpoint.
type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func ptr[T any](v T) *T { return &v }

// readOnlyAnnotations is shared by every tool: the gateway has no write path.
func readOnlyAnnotations(title string) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		Title:           title,
		ReadOnlyHint:    true,
		IdempotentHint:  true,
		OpenWorldHint:   ptr(true),
		DestructiveHint: ptr(false),
	}
}

func toolMeta() mcp.Meta {
	return mcp.Meta{
		"securitySchemes": []map[string]any{
			{"type": "oauth2", "scopes": []string{ScopeRead}},
		},
	}
}

func toolJSON(v any) *mcp.CallToolResult {
	raw, err := json.Marshal(v)
	if err != nil {
		return toolError(platform.CodeInternalError, "encode result: "+err.Error(), nil)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func toolError(code, message string, meta mcp.Meta) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Meta:    meta,
		Content: []mcp.Content{&mcp.TextContent{Text: code + ": " + message}},
	}
}

// toolFunc is the uniform shape every gateway tool reduces to after auth and
// instrumentation are peeled off.
type toolFunc func(ctx context.Context, params platform.ToolParams, authHeader string) platform.Result

// instrument wraps a tool with the scope check and phase events. The SDK
// never sees a Go error for domain failures; those ride inside the result so
// the model can read the code and self-correct.
func (s *Server) instrument(name string, fn toolFunc) func(context.Context, *mcp.CallToolRequest, platform.ToolParams) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, params platform.ToolParams) (*mcp.CallToolResult, any, error) {
		c := telemetry.CorrelationFrom(ctx)
		info := authInfoFrom(ctx)
		if info == nil {
			return toolError(platform.CodeAuthMissing, "authentication required", nil), nil, nil
		}
		if !info.scopes[ScopeRead] {
			meta := mcp.Meta{
				"mcp/www_authenticate": fmt.Sprintf(`Bearer resource=%q, resource_metadata=%q, scope=%q, error="insufficient_scope"`,
					s.resourceURL(mcpPath), s.resourceMetadataURL(mcpPath), ScopeRead),
			}
			return toolError(platform.CodeAuthFailed, "token lacks the "+ScopeRead+" scope", meta), nil, nil
		}

		start := time.Now()
		s.emitter.Emit(c, "tool_start", "ok", "tool invoked", 0,
			"tool", name, "mcp_platform", params.Platform, "sport", params.Sport)

		result := fn(ctx, params, info.header)

		duration := time.Since(start).Milliseconds()
		if !result.Success {
			s.emitter.Emit(c, "tool_error", "error", "tool failed", duration,
				"tool", name, "code", result.Code)
			return toolError(result.Code, result.Error, nil), nil, nil
		}
		s.emitter.Emit(c, "tool_end", "ok", "tool completed", duration, "tool", name)
		return toolJSON(result), nil, nil
	}
}

// addTool registers one tool on the MCP server and records it for the plain
// /tools listing.
func (s *Server) addTool(server *mcp.Server, name, description string, fn toolFunc) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        name,
		Description: description,
		Annotations: readOnlyAnnotations(name),
		Meta:        toolMeta(),
	}, s.instrument(name, fn))
	s.tools = append(s.tools, toolInfo{Name: name, Description: description})
}

// routed builds a toolFunc that forwards to the owning platform adapter.
// An omitted platform means ESPN, the only adapter wired today.
func (s *Server) routed(tool string) toolFunc {
	return func(ctx context.Context, params platform.ToolParams, authHeader string) platform.Result {
		if params.Platform == "" {
			params.Platform = platform.ESPN
		}
		return s.router.Route(ctx, tool, params, authHeader)
	}
}

// registerTools declares the public tool surface.
func (s *Server) registerTools(server *mcp.Server) {
	s.addTool(server, "get_user_session",
		"Call this first. Returns the user's stored fantasy leagues with team ids, per-sport defaults, the current season for every sport, and instructions for the other tools.",
		func(ctx context.Context, _ platform.ToolParams, authHeader string) platform.Result {
			return s.handleUserSession(ctx, authHeader)
		})
	s.addTool(server, "get_ancient_history",
		"Returns every stored league season get_user_session leaves out, optionally filtered by platform.",
		func(ctx context.Context, params platform.ToolParams, authHeader string) platform.Result {
			return s.handleAncientHistory(ctx, authHeader, params.Platform)
		})
	s.addTool(server, "get_league_info",
		"League settings: name, size, scoring type, roster slots and schedule shape. Requires platform, sport and league_id; season_year defaults to the current season.",
		s.routed("get_league_info"))
	s.addTool(server, "get_standings",
		"Current standings for a league, ranked by win percentage with points for and against.",
		s.routed("get_standings"))
	s.addTool(server, "get_matchups",
		"Head-to-head matchups and scores for one week. Omit week for the current matchup period.",
		s.routed("get_matchups"))
	s.addTool(server, "get_roster",
		"A team's roster with positions, lineup slots, eligibility and ownership. Requires team_id; the user's own team id comes from get_user_session.",
		s.routed("get_roster"))
	s.addTool(server, "get_free_agents",
		"Top available free agents and waiver players, optionally filtered by position. count is clamped to 100.",
		s.routed("get_free_agents"))
	s.addTool(server, "get_transactions",
		"Recent adds, drops, waiver claims and trades. Defaults to the last two scoring periods; pass week for a specific one.",
		s.routed("get_transactions"))
}
