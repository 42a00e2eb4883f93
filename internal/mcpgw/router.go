package mcpgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flaim-app/fantasy-mcp/internal/platform"
	"github.com/flaim-app/fantasy-mcp/internal/telemetry"
)

const routeTimeout = 30 * time.Second

// Router forwards tool calls to the adapter that owns the platform. Adapters
// are plain HTTP services; the gateway holds no platform logic of its own.
type Router struct {
	adapters map[string]string
	http     *http.Client
}

func NewRouter(espnAdapterURL string) *Router {
	return &Router{
		adapters: map[string]string{
			platform.ESPN: espnAdapterURL,
		},
		http: &http.Client{Timeout: routeTimeout},
	}
}

// Platforms lists the platforms with a wired adapter.
func (rt *Router) Platforms() []string {
	out := make([]string, 0, len(rt.adapters))
	for p := range rt.adapters {
		out = append(out, p)
	}
	return out
}

// AdapterURL returns the base URL for a platform's adapter.
func (rt *Router) AdapterURL(platformName string) (string, bool) {
	u, ok := rt.adapters[platformName]
	return u, ok
}

// Route executes one tool call against the owning adapter. Every failure
// comes back as a tagged result; the MCP layer never sees a raw error.
func (rt *Router) Route(ctx context.Context, tool string, params platform.ToolParams, authHeader string) platform.Result {
	base, ok := rt.adapters[params.Platform]
	if !ok {
		return platform.Fail(platform.CodePlatformNotSupported,
			"platform %q is not supported - available: %v", params.Platform, rt.Platforms())
	}

	body, err := json.Marshal(platform.ExecuteRequest{Tool: tool, Params: params, AuthHeader: authHeader})
	if err != nil {
		return platform.Fail(platform.CodeInternalError, "encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/execute", bytes.NewReader(body))
	if err != nil {
		return platform.Fail(platform.CodeInternalError, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	telemetry.CorrelationFrom(ctx).Apply(req.Header)

	resp, err := rt.http.Do(req)
	if err != nil {
		return platform.Fail(platform.CodeRoutingError,
			"could not reach %s adapter: %v", params.Platform, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return platform.Fail(platform.CodeRoutingError, "read adapter response: %v", err)
	}

	var result platform.Result
	if jsonErr := json.Unmarshal(raw, &result); jsonErr != nil || (result.Error == "" && !result.Success && result.Code == "") {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return platform.Fail(platform.CodePlatformError,
				"%s adapter returned status %d", params.Platform, resp.StatusCode)
		}
		return platform.Fail(platform.CodePlatformError,
			"%s adapter returned an unreadable response", params.Platform)
	}
	return result
}

// Health probes an adapter's /health endpoint with a 2s deadline.
func (rt *Router) Health(ctx context.Context, platformName string) error {
	base, ok := rt.adapters[platformName]
	if !ok {
		return fmt.Errorf("no adapter for %s", platformName)
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := rt.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s adapter health: status %d", platformName, resp.StatusCode)
	}
	return nil
}
