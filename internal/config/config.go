// Package config loads service configuration from the environment.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every knob both binaries read. Unused fields are zero for the
// binary that does not consume them.
type Config struct {
	GatewayAddr string
	AdapterAddr string

	// PublicBaseURL is the externally visible origin of the gateway, used to
	// build OAuth resource identifiers (e.g. https://api.flaim.app).
	PublicBaseURL string
	PublicSiteURL string

	AuthWorkerURL  string
	ESPNAdapterURL string

	RedisURL string

	OpenAIAppsChallengeToken string

	LogOperationalEvents bool
}

// Load reads .env (when present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("GATEWAY_ADDR", ":8080")
	v.SetDefault("ADAPTER_ADDR", ":8081")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("PUBLIC_SITE_URL", "https://www.flaim.app")
	v.SetDefault("AUTH_WORKER_URL", "http://localhost:8787")
	v.SetDefault("ESPN_ADAPTER_URL", "http://localhost:8081")
	v.SetDefault("LOG_OPERATIONAL_EVENTS", true)

	return Config{
		GatewayAddr:              v.GetString("GATEWAY_ADDR"),
		AdapterAddr:              v.GetString("ADAPTER_ADDR"),
		PublicBaseURL:            strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
		PublicSiteURL:            strings.TrimRight(v.GetString("PUBLIC_SITE_URL"), "/"),
		AuthWorkerURL:            strings.TrimRight(v.GetString("AUTH_WORKER_URL"), "/"),
		ESPNAdapterURL:           strings.TrimRight(v.GetString("ESPN_ADAPTER_URL"), "/"),
		RedisURL:                 v.GetString("REDIS_URL"),
		OpenAIAppsChallengeToken: v.GetString("OPENAI_APPS_CHALLENGE_TOKEN"),
		LogOperationalEvents:     v.GetBool("LOG_OPERATIONAL_EVENTS"),
	}
}
