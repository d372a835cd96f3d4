package channel

import "time"

// Connection status codes, mirroring socket ready states. StatusNone means
// no connection attempt has been made yet.
const (
	StatusNone       = -1
	StatusConnecting = 0
	StatusOpen       = 1
	StatusClosing    = 2
	StatusClosed     = 3
)

// Payload encodings.
const (
	EncodingBinary = "binary"
	EncodingText   = "text"
)

// Default configuration values.
const (
	DefaultReconnectAttempts = 3
	DefaultReconnectInterval = 5 * time.Second
	DefaultHeartbeatInterval = 10 * time.Second
	DefaultHeartbeatTimeout  = 15 * time.Second
	DefaultJitterBound       = 2 * time.Second

	// heartbeatTimeoutMargin widens the check period when it would
	// otherwise race the send period.
	heartbeatTimeoutMargin = 3 * time.Second
)

// Config configures a Client. It is immutable after construction; zero
// fields are filled with defaults.
type Config struct {
	URL string // WebSocket URL (ws:// or wss://)

	ReconnectAttempts int           // Max attempts per failure episode
	ReconnectInterval time.Duration // Base backoff delay
	HeartbeatInterval time.Duration // Heartbeat send period
	HeartbeatTimeout  time.Duration // Max quiet period before the peer is presumed dead
	JitterBound       time.Duration // Upper bound for random jitter added to timers (negative disables)

	Encoding       string        // "binary" or "text" frame encoding for outbound payloads
	BufferOutgoing bool          // Queue payloads sent while disconnected, flush on open
	MessageTimeout time.Duration // Optional: max wait for any inbound frame after a send (0 = disabled)

	HandshakeTimeout time.Duration // Dial handshake deadline
	WriteTimeout     time.Duration // Per-frame write deadline
}

// applyDefaults fills zero fields and enforces the interval/timeout
// invariant: a check period equal to (or shorter than) the send period
// would expire before the next heartbeat is even written, so it is widened.
func (c *Config) applyDefaults() {
	if c.ReconnectAttempts == 0 {
		c.ReconnectAttempts = DefaultReconnectAttempts
	}
	if c.ReconnectInterval == 0 {
		c.ReconnectInterval = DefaultReconnectInterval
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.HeartbeatTimeout == 0 {
		c.HeartbeatTimeout = DefaultHeartbeatTimeout
	}
	if c.JitterBound == 0 {
		c.JitterBound = DefaultJitterBound
	} else if c.JitterBound < 0 {
		c.JitterBound = 0
	}
	if c.Encoding == "" {
		c.Encoding = EncodingBinary
	}

	if c.HeartbeatTimeout <= c.HeartbeatInterval {
		c.HeartbeatTimeout = c.HeartbeatInterval + heartbeatTimeoutMargin
	}
}

// Handlers is the caller-supplied callback set. Any nil slot resolves to a
// no-op at construction, so the Client invokes slots unconditionally. The
// Heartbeat producer is the exception: leaving it nil disables the
// heartbeat timers entirely.
type Handlers struct {
	OnConnected        func()
	OnMessage          func(payload []byte)
	OnClosed           func()
	OnError            func(err error)
	OnSendError        func(status int)
	OnHeartbeatTimeout func()
	OnReconnecting     func(remaining int)
	OnReconnectFailed  func()

	// Heartbeat produces the payload written on each heartbeat tick.
	Heartbeat func() []byte
}

// normalize returns a copy with every nil slot (except Heartbeat) replaced
// by a no-op.
func (h Handlers) normalize() Handlers {
	if h.OnConnected == nil {
		h.OnConnected = func() {}
	}
	if h.OnMessage == nil {
		h.OnMessage = func([]byte) {}
	}
	if h.OnClosed == nil {
		h.OnClosed = func() {}
	}
	if h.OnError == nil {
		h.OnError = func(error) {}
	}
	if h.OnSendError == nil {
		h.OnSendError = func(int) {}
	}
	if h.OnHeartbeatTimeout == nil {
		h.OnHeartbeatTimeout = func() {}
	}
	if h.OnReconnecting == nil {
		h.OnReconnecting = func(int) {}
	}
	if h.OnReconnectFailed == nil {
		h.OnReconnectFailed = func() {}
	}
	return h
}
