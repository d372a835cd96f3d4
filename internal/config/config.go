package config

// WstapConfig is the top-level configuration for the wstap tool.
type WstapConfig struct {
	Log      LogConfig       `yaml:"log"`
	Channels []ChannelConfig `yaml:"channels"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ChannelConfig describes one resilient channel to open. Durations are
// expressed in milliseconds; zero values fall back to the channel package
// defaults.
type ChannelConfig struct {
	ID  int    `yaml:"id"`
	URL string `yaml:"url"`

	ReconnectAttempts   int   `yaml:"reconnect_attempts"`
	ReconnectIntervalMS int   `yaml:"reconnect_interval_ms"`
	HeartbeatIntervalMS int   `yaml:"heartbeat_interval_ms"`
	HeartbeatTimeoutMS  int   `yaml:"heartbeat_timeout_ms"`
	JitterBoundMS       int   `yaml:"jitter_bound_ms"`
	MessageTimeoutMS    int   `yaml:"message_timeout_ms"`

	Encoding       string `yaml:"encoding"`        // "binary" or "text"
	BufferOutgoing bool   `yaml:"buffer_outgoing"` // queue sends while disconnected

	// HeartbeatPayload, when non-empty, enables heartbeats: wstap writes
	// this payload on each heartbeat tick.
	HeartbeatPayload string `yaml:"heartbeat_payload"`
}
