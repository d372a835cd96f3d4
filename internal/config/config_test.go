package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
log:
  level: debug
channels:
  - id: 1
    url: wss://feed.example.com/stream
    reconnect_attempts: 5
    reconnect_interval_ms: 2000
    encoding: text
    buffer_outgoing: true
  - id: 2
    url: ws://localhost:8080/ws
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if len(cfg.Channels) != 2 {
		t.Fatalf("len(Channels) = %d, want 2", len(cfg.Channels))
	}
	if cfg.Channels[0].URL != "wss://feed.example.com/stream" {
		t.Errorf("Channels[0].URL = %q", cfg.Channels[0].URL)
	}
	if cfg.Channels[0].ReconnectAttempts != 5 {
		t.Errorf("ReconnectAttempts = %d, want 5", cfg.Channels[0].ReconnectAttempts)
	}
	if cfg.Channels[0].ReconnectIntervalMS != 2000 {
		t.Errorf("ReconnectIntervalMS = %d, want 2000", cfg.Channels[0].ReconnectIntervalMS)
	}
	if !cfg.Channels[0].BufferOutgoing {
		t.Error("BufferOutgoing = false, want true")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_FEED_URL", "wss://feed.example.com/live")

	yaml := `
channels:
  - id: 1
    url: ${TEST_FEED_URL}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Channels[0].URL != "wss://feed.example.com/live" {
		t.Errorf("URL = %q, want env-expanded value", cfg.Channels[0].URL)
	}
}

func TestLoadAndValidate_AppliesDefaults(t *testing.T) {
	yaml := `
channels:
  - id: 1
    url: ws://localhost:9000/ws
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Channels[0].Encoding != DefaultEncoding {
		t.Errorf("Encoding = %q, want %q", cfg.Channels[0].Encoding, DefaultEncoding)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "no channels",
			yaml: "log:\n  level: info\n",
			want: "at least one channel",
		},
		{
			name: "missing url",
			yaml: "channels:\n  - id: 1\n",
			want: "url is required",
		},
		{
			name: "bad scheme",
			yaml: "channels:\n  - id: 1\n    url: https://example.com\n",
			want: "ws:// or wss://",
		},
		{
			name: "duplicate id",
			yaml: "channels:\n  - id: 1\n    url: ws://a\n  - id: 1\n    url: ws://b\n",
			want: "duplicated",
		},
		{
			name: "negative id",
			yaml: "channels:\n  - id: -2\n    url: ws://a\n",
			want: "id must be >= 0",
		},
		{
			name: "bad encoding",
			yaml: "channels:\n  - id: 1\n    url: ws://a\n    encoding: utf7\n",
			want: "encoding must be",
		},
		{
			name: "bad log level",
			yaml: "log:\n  level: loud\nchannels:\n  - id: 1\n    url: ws://a\n",
			want: "log.level",
		},
		{
			name: "negative duration",
			yaml: "channels:\n  - id: 1\n    url: ws://a\n    heartbeat_timeout_ms: -5\n",
			want: "durations must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, tt.yaml)
			_, err := LoadAndValidate(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
