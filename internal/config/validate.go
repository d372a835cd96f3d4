package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *WstapConfig) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}

	if len(c.Channels) == 0 {
		return errors.New("at least one channel is required")
	}

	seen := make(map[int]bool)
	for i, ch := range c.Channels {
		prefix := fmt.Sprintf("channels[%d]", i)

		if ch.ID < 0 {
			return fmt.Errorf("%s.id must be >= 0", prefix)
		}
		if seen[ch.ID] {
			return fmt.Errorf("%s.id %d is duplicated", prefix, ch.ID)
		}
		seen[ch.ID] = true

		if ch.URL == "" {
			return fmt.Errorf("%s.url is required", prefix)
		}
		if !strings.HasPrefix(ch.URL, "ws://") && !strings.HasPrefix(ch.URL, "wss://") {
			return fmt.Errorf("%s.url must use ws:// or wss:// scheme", prefix)
		}

		if ch.Encoding != "binary" && ch.Encoding != "text" {
			return fmt.Errorf("%s.encoding must be binary or text, got %q", prefix, ch.Encoding)
		}

		if ch.ReconnectAttempts < 0 {
			return fmt.Errorf("%s.reconnect_attempts must be >= 0", prefix)
		}
		if ch.ReconnectIntervalMS < 0 || ch.HeartbeatIntervalMS < 0 ||
			ch.HeartbeatTimeoutMS < 0 || ch.JitterBoundMS < 0 || ch.MessageTimeoutMS < 0 {
			return fmt.Errorf("%s durations must be >= 0", prefix)
		}
	}

	return nil
}
