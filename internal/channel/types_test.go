package channel

import (
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{URL: "ws://test"}
	cfg.applyDefaults()

	if cfg.ReconnectAttempts != 3 {
		t.Errorf("ReconnectAttempts = %d, want 3", cfg.ReconnectAttempts)
	}
	if cfg.ReconnectInterval != 5*time.Second {
		t.Errorf("ReconnectInterval = %v, want 5s", cfg.ReconnectInterval)
	}
	if cfg.HeartbeatInterval != 10*time.Second {
		t.Errorf("HeartbeatInterval = %v, want 10s", cfg.HeartbeatInterval)
	}
	if cfg.HeartbeatTimeout != 15*time.Second {
		t.Errorf("HeartbeatTimeout = %v, want 15s", cfg.HeartbeatTimeout)
	}
	if cfg.JitterBound != 2*time.Second {
		t.Errorf("JitterBound = %v, want 2s", cfg.JitterBound)
	}
	if cfg.Encoding != EncodingBinary {
		t.Errorf("Encoding = %q, want %q", cfg.Encoding, EncodingBinary)
	}
	if cfg.BufferOutgoing {
		t.Error("BufferOutgoing should default to false")
	}
	if cfg.MessageTimeout != 0 {
		t.Errorf("MessageTimeout = %v, want 0 (disabled)", cfg.MessageTimeout)
	}
}

func TestConfig_EqualHeartbeatTimeoutWidened(t *testing.T) {
	cfg := Config{
		URL:               "ws://test",
		HeartbeatInterval: 1000 * time.Millisecond,
		HeartbeatTimeout:  1000 * time.Millisecond,
	}
	cfg.applyDefaults()

	// A check period equal to the send period would race every send.
	if cfg.HeartbeatTimeout != 4000*time.Millisecond {
		t.Errorf("HeartbeatTimeout = %v, want 4s", cfg.HeartbeatTimeout)
	}
}

func TestConfig_ShortHeartbeatTimeoutWidened(t *testing.T) {
	cfg := Config{
		URL:               "ws://test",
		HeartbeatInterval: 10 * time.Second,
		HeartbeatTimeout:  2 * time.Second,
	}
	cfg.applyDefaults()

	if cfg.HeartbeatTimeout != 13*time.Second {
		t.Errorf("HeartbeatTimeout = %v, want 13s", cfg.HeartbeatTimeout)
	}
}

func TestConfig_NegativeJitterDisables(t *testing.T) {
	cfg := Config{URL: "ws://test", JitterBound: -1}
	cfg.applyDefaults()

	if cfg.JitterBound != 0 {
		t.Errorf("JitterBound = %v, want 0", cfg.JitterBound)
	}
}

func TestHandlers_NormalizeFillsNoOps(t *testing.T) {
	h := Handlers{}.normalize()

	// Every slot except Heartbeat must be invocable.
	h.OnConnected()
	h.OnMessage([]byte("x"))
	h.OnClosed()
	h.OnError(nil)
	h.OnSendError(StatusNone)
	h.OnHeartbeatTimeout()
	h.OnReconnecting(1)
	h.OnReconnectFailed()

	if h.Heartbeat != nil {
		t.Error("Heartbeat should stay nil: its absence disables the heartbeat timers")
	}
}

func TestHandlers_NormalizeKeepsProvided(t *testing.T) {
	called := false
	h := Handlers{OnConnected: func() { called = true }}.normalize()

	h.OnConnected()
	if !called {
		t.Error("provided handler was replaced")
	}
}
