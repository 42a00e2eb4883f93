package mcpgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/flaim-app/fantasy-mcp/internal/telemetry"
)

const maxRPCBodyBytes = 4 << 20

// jsonRPCUnauthorized is the implementation-defined JSON-RPC error code the
// gate pairs with HTTP 401.
const jsonRPCUnauthorized = -32001

// Handshake methods every client must be able to call before it has a token:
// discovery is public, execution is not.
var publicMethods = map[string]bool{
	"initialize":                true,
	"notifications/initialized": true,
	"tools/list":                true,
}

type authInfo struct {
	header string
	userID string
	scopes map[string]bool
}

type authKey struct{}

func withAuthInfo(ctx context.Context, info *authInfo) context.Context {
	return context.WithValue(ctx, authKey{}, info)
}

func authInfoFrom(ctx context.Context) *authInfo {
	info, _ := ctx.Value(authKey{}).(*authInfo)
	return info
}

func parseScopes(scope string) map[string]bool {
	scopes := map[string]bool{}
	for _, s := range strings.Fields(scope) {
		scopes[s] = true
	}
	return scopes
}

// rpcMethods pulls the method names out of a JSON-RPC body, which may be a
// single request or a batch.
func rpcMethods(body []byte) []string {
	type req struct {
		Method string `json:"method"`
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '[' {
		var batch []req
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil
		}
		methods := make([]string, 0, len(batch))
		for _, r := range batch {
			methods = append(methods, r.Method)
		}
		return methods
	}
	var single req
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil
	}
	return []string{single.Method}
}

func allPublic(methods []string) bool {
	if len(methods) == 0 {
		return false
	}
	for _, m := range methods {
		if !publicMethods[m] {
			return false
		}
	}
	return true
}

// writeUnauthorized emits the dual-protocol rejection: HTTP 401 with the
// RFC 9728 challenge header, and a JSON-RPC error body so MCP clients that
// only read frames still see a structured failure.
func (s *Server) writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	challenge := fmt.Sprintf(`Bearer resource=%q, resource_metadata=%q`,
		s.resourceURL(r.URL.Path), s.resourceMetadataURL(r.URL.Path))
	w.Header().Set("WWW-Authenticate", challenge)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      nil,
		"error": map[string]any{
			"code":    jsonRPCUnauthorized,
			"message": message,
		},
	})
}

// authGate wraps the MCP transport. Handshake traffic passes untouched;
// everything else requires a bearer that introspects as valid for this
// resource. Introspection failures fail closed.
func (s *Server) authGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxRPCBodyBytes))
		if err != nil {
			http.Error(w, "unreadable body", http.StatusBadRequest)
			return
		}
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		if allPublic(rpcMethods(body)) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			s.writeUnauthorized(w, r, "authentication required")
			return
		}

		start := time.Now()
		verdict, err := s.auth.Introspect(r.Context(), authHeader, s.resourceURL(r.URL.Path))
		c := telemetry.CorrelationFrom(r.Context())
		if err != nil {
			s.emitter.Emit(c, "auth_gate", "error", "introspection failed",
				time.Since(start).Milliseconds(), "err", err.Error())
			s.writeUnauthorized(w, r, "token verification unavailable")
			return
		}
		if !verdict.Valid {
			s.emitter.Emit(c, "auth_gate", "error", "token rejected",
				time.Since(start).Milliseconds())
			s.writeUnauthorized(w, r, "invalid or expired token")
			return
		}
		scopes := parseScopes(verdict.Scope)
		if len(scopes) == 0 {
			// A valid token with no scopes can do nothing here; treat it the
			// same as an invalid one rather than letting it through the gate.
			s.emitter.Emit(c, "auth_gate", "error", "token carries no scopes",
				time.Since(start).Milliseconds())
			s.writeUnauthorized(w, r, "token grants no scopes")
			return
		}

		info := &authInfo{
			header: authHeader,
			userID: verdict.UserID,
			scopes: scopes,
		}
		next.ServeHTTP(w, r.WithContext(withAuthInfo(r.Context(), info)))
	})
}
