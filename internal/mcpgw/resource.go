// Package mcpgw is the MCP gateway: transport, auth gate, tool registry,
// session assembly and the routing layer that fans tool calls out to platform
// adapters.
package mcpgw

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Scopes the authorization server can grant. Every tool on this gateway is
// read-only, so only ScopeRead is enforced; ScopeWrite is advertised for
// clients that request both up front.
const (
	ScopeRead  = "mcp:read"
	ScopeWrite = "mcp:write"
)

const (
	mcpPath        = "/mcp"
	mcpFantasyPath = "/fantasy/mcp"

	wellKnownResource = "/.well-known/oauth-protected-resource"
	wellKnownAuth     = "/.well-known/oauth-authorization-server"
)

// resourceURL computes the OAuth resource identifier for a request: tokens
// bound to the /fantasy/mcp alias are only valid there, so the identifier is
// path-sensitive.
func (s *Server) resourceURL(requestPath string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	if strings.HasPrefix(requestPath, "/fantasy/") {
		return base + mcpFantasyPath
	}
	return base + mcpPath
}

// resourceMetadataURL is where a 401's WWW-Authenticate points the client for
// RFC 9728 discovery. Each MCP mount has its own metadata document rooted at
// the same path prefix.
func (s *Server) resourceMetadataURL(requestPath string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	if strings.HasPrefix(requestPath, "/fantasy/") {
		return base + "/fantasy" + wellKnownResource
	}
	return base + wellKnownResource
}

// handleProtectedResourceMetadata serves the RFC 9728 document. The root
// document and the /fantasy-prefixed one both resolve here; the resource
// field tracks the variant requested.
func (s *Server) handleProtectedResourceMetadata(w http.ResponseWriter, r *http.Request) {
	doc := map[string]any{
		"resource":                 s.resourceURL(r.URL.Path),
		"authorization_servers":    []string{s.auth.Base()},
		"bearer_methods_supported": []string{"header"},
		"scopes_supported":         []string{ScopeRead, ScopeWrite},
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_ = json.NewEncoder(w).Encode(doc)
}

// handleAuthServerMetadata proxies the RFC 8414 document from the auth
// worker so clients only ever talk to one origin. The document is mounted
// under each MCP path, so the suffix is whatever follows the well-known
// segment.
func (s *Server) handleAuthServerMetadata(w http.ResponseWriter, r *http.Request) {
	suffix := ""
	if idx := strings.Index(r.URL.Path, wellKnownAuth); idx >= 0 {
		suffix = r.URL.Path[idx+len(wellKnownAuth):]
	}
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, s.auth.AuthServerMetadataURL(suffix), nil)
	if err != nil {
		http.Error(w, "metadata unavailable", http.StatusBadGateway)
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		http.Error(w, "metadata unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
