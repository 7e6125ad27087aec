package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HA_MCP_TOKEN", "abc")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HAURL != "http://homeassistant.local:8123" {
		t.Fatalf("wrong default url: %s", cfg.HAURL)
	}
	if cfg.Transport != "stdio" || cfg.Port != "8099" || cfg.SkipConfirmDefault {
		t.Fatalf("wrong defaults: %+v", cfg)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("HA_MCP_TOKEN", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without token")
	}
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	t.Setenv("HA_MCP_TOKEN", "abc")
	t.Setenv("HA_MCP_TRANSPORT", "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown transport")
	}
}

func TestWebSocketURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"http://homeassistant.local:8123", "ws://homeassistant.local:8123/api/websocket"},
		{"https://ha.example.com", "wss://ha.example.com/api/websocket"},
		{"http://ha.example.com/", "ws://ha.example.com/api/websocket"},
	}
	for _, tc := range cases {
		cfg := &Config{HAURL: tc.in}
		if got := cfg.WebSocketURL(); got != tc.want {
			t.Fatalf("WebSocketURL(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
