package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds everything the server reads from the environment. All keys
// carry the HA_MCP_ prefix.
type Config struct {
	HAURL              string
	Token              string
	Transport          string // "stdio" or "http"
	Host               string
	Port               string
	SkipConfirmDefault bool
	LogLevel           string
}

func Load() (*Config, error) {
	cfg := &Config{
		HAURL:              getenv("HA_MCP_URL", "http://homeassistant.local:8123"),
		Token:              os.Getenv("HA_MCP_TOKEN"),
		Transport:          getenv("HA_MCP_TRANSPORT", "stdio"),
		Host:               getenv("HA_MCP_HOST", "0.0.0.0"),
		Port:               getenv("HA_MCP_PORT", "8099"),
		SkipConfirmDefault: getenvBool("HA_MCP_SKIP_CONFIRM_DEFAULT", false),
		LogLevel:           getenv("HA_MCP_LOG_LEVEL", "info"),
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("HA_MCP_TOKEN not set")
	}
	switch cfg.Transport {
	case "stdio", "http":
	default:
		return nil, fmt.Errorf("HA_MCP_TRANSPORT must be stdio or http, got %q", cfg.Transport)
	}
	if _, err := url.Parse(cfg.HAURL); err != nil {
		return nil, fmt.Errorf("HA_MCP_URL invalid: %w", err)
	}
	return cfg, nil
}

// WebSocketURL derives the websocket endpoint from the base HTTP URL.
func (c *Config) WebSocketURL() string {
	u := c.HAURL
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return strings.TrimRight(u, "/") + "/api/websocket"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
