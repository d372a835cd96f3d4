// wstap opens resilient WebSocket channels from a config file and streams
// every frame to the console.
// Usage: go run ./cmd/wstap --config configs/wstap.local.yaml
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sockline/sockline/internal/channel"
	"github.com/sockline/sockline/internal/config"
	"github.com/sockline/sockline/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/wstap.example.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting wstap",
		"version", version.Version,
		"commit", version.Commit,
		"channels", len(cfg.Channels),
	)

	registry := channel.NewRegistry(logger)

	for _, ch := range cfg.Channels {
		registry.Create(ch.ID, channelConfig(ch), handlers(logger, ch))
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", "signal", sig)
	registry.DestroyAll()
	logger.Info("all channels destroyed")
}

// channelConfig maps a config entry onto the channel package Config.
func channelConfig(ch config.ChannelConfig) channel.Config {
	return channel.Config{
		URL:               ch.URL,
		ReconnectAttempts: ch.ReconnectAttempts,
		ReconnectInterval: ms(ch.ReconnectIntervalMS),
		HeartbeatInterval: ms(ch.HeartbeatIntervalMS),
		HeartbeatTimeout:  ms(ch.HeartbeatTimeoutMS),
		JitterBound:       ms(ch.JitterBoundMS),
		MessageTimeout:    ms(ch.MessageTimeoutMS),
		Encoding:          ch.Encoding,
		BufferOutgoing:    ch.BufferOutgoing,
	}
}

// handlers builds a logging callback set for one channel.
func handlers(logger *slog.Logger, ch config.ChannelConfig) channel.Handlers {
	log := logger.With("channel_id", ch.ID, "url", ch.URL)

	h := channel.Handlers{
		OnConnected: func() {
			log.Info("channel connected")
		},
		OnMessage: func(payload []byte) {
			log.Info("frame", "bytes", len(payload), "payload", string(payload))
		},
		OnClosed: func() {
			log.Warn("channel closed")
		},
		OnError: func(err error) {
			log.Warn("channel error", "error", err)
		},
		OnSendError: func(status int) {
			log.Warn("send failed", "status", status)
		},
		OnHeartbeatTimeout: func() {
			log.Warn("heartbeat timeout")
		},
		OnReconnecting: func(remaining int) {
			log.Info("reconnecting", "remaining_attempts", remaining)
		},
		OnReconnectFailed: func() {
			log.Error("reconnect attempts exhausted")
		},
	}

	if ch.HeartbeatPayload != "" {
		payload := []byte(ch.HeartbeatPayload)
		h.Heartbeat = func() []byte { return payload }
	}

	return h
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
