package channel

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sockline/sockline/internal/transport"
)

// Client owns one underlying transport connection and drives it through
// connecting, open, closing and reconnecting states until destroyed.
//
// Callbacks are always invoked with the internal lock released, so any
// Client method (including Destroy) may be called from inside a callback.
// Events from superseded connections are identified by a generation counter
// and dropped, so a stale socket can never feed the current state.
type Client struct {
	cfg    Config
	logger *slog.Logger
	dialer transport.Dialer

	mu       sync.Mutex
	handlers Handlers
	conn     transport.Conn
	gen      uint64 // bumped whenever conn is attached or detached
	status   int

	connecting bool // a connect attempt is in flight
	closing    bool // a close episode is being handled
	destroyed  bool

	attempts int
	queue    [][]byte

	// Timer handles: nil or a live scheduled timer, never dangling.
	heartbeatSend  *time.Timer
	heartbeatCheck *time.Timer
	reconnect      *time.Timer
	messageTimeout *time.Timer
	cooldown       *time.Timer

	// Arm sequence numbers for the one-shot liveness timers. Stop cannot
	// reach an expiry callback that has already started running; such a
	// callback compares its captured sequence against the current one and
	// backs off when its arm has been superseded.
	checkSeq uint64
	msgSeq   uint64
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDialer overrides the transport dialer. Used by tests and by hosts
// that supply their own transport.
func WithDialer(d transport.Dialer) Option {
	return func(c *Client) {
		if d != nil {
			c.dialer = d
		}
	}
}

// New creates a Client and immediately begins its first connection attempt
// in the background. The Client persists across reconnect cycles until
// Destroy is called.
func New(cfg Config, handlers Handlers, opts ...Option) *Client {
	cfg.applyDefaults()

	c := &Client{
		cfg:      cfg,
		handlers: handlers.normalize(),
		status:   StatusNone,
		logger:   slog.Default(),
		dialer:   transport.NewWSDialer(cfg.HandshakeTimeout, cfg.WriteTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("instance", uuid.NewString())

	go c.connect()
	return c
}

// Connect triggers a connection attempt. It is a no-op while a connection
// is open, an attempt is already in flight, or the Client is destroyed.
// This is the manual path back after reconnect exhaustion.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.destroyed || c.connecting || c.status == StatusOpen {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	go c.connect()
}

// Send writes payload to the connection. While not open it reports the
// current status through OnSendError, queues the payload when outbound
// buffering is enabled, and returns false. Transport write failures are
// also reported through OnSendError; Send never panics.
func (c *Client) Send(payload []byte) bool {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return false
	}

	if c.conn == nil || c.status != StatusOpen {
		status := c.status
		if c.cfg.BufferOutgoing {
			c.queue = append(c.queue, payload)
		}
		onSendError := c.handlers.OnSendError
		c.mu.Unlock()

		onSendError(status)
		return false
	}

	conn := c.conn
	gen := c.gen
	c.mu.Unlock()

	if err := conn.Write(c.cfg.Encoding == EncodingBinary, payload); err != nil {
		c.logger.Warn("send failed", "error", err)

		c.mu.Lock()
		status := c.status
		onSendError := c.handlers.OnSendError
		c.mu.Unlock()

		onSendError(status)
		return false
	}

	if c.cfg.MessageTimeout > 0 {
		c.mu.Lock()
		if !c.destroyed && gen == c.gen && c.status == StatusOpen {
			c.cancelMessageTimeoutLocked()
			seq := c.msgSeq
			c.messageTimeout = time.AfterFunc(c.cfg.MessageTimeout, func() { c.messageExpired(seq) })
		}
		c.mu.Unlock()
	}

	return true
}

// IsConnected reports whether the connection is currently open.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && c.status == StatusOpen
}

// Status returns the current connection status code.
func (c *Client) Status() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Connection returns the current raw transport handle, or nil.
func (c *Client) Connection() transport.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// Destroy tears the Client down: every timer is cancelled, the connection
// is closed, OnClosed fires once (unless a close episode already reported
// it), and the callback set is released. Destroy is idempotent and safe to
// call from inside any callback.
func (c *Client) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	suppressClosed := c.closing
	c.status = StatusClosed

	c.stopTimerLocked(&c.heartbeatSend)
	c.cancelHeartbeatCheckLocked()
	c.stopTimerLocked(&c.reconnect)
	c.cancelMessageTimeoutLocked()
	c.stopTimerLocked(&c.cooldown)

	old := c.conn
	c.conn = nil
	c.gen++

	onClosed := c.handlers.OnClosed
	c.handlers = Handlers{}.normalize() // release caller references
	c.queue = nil
	c.mu.Unlock()

	if old != nil {
		old.Close()
	}
	if !suppressClosed {
		onClosed()
	}

	c.logger.Debug("channel destroyed")
}

// connect performs one connection attempt. The connecting guard drops
// overlapping requests; any superseded connection is detached (generation
// bump) and closed before the new dial.
func (c *Client) connect() {
	c.mu.Lock()
	// The open check makes a stray reconnect timer firing after a manual
	// Connect has already succeeded a no-op.
	if c.destroyed || c.connecting || c.status == StatusOpen {
		c.mu.Unlock()
		return
	}
	c.connecting = true
	c.closing = false // a new attempt ends the previous failure episode
	c.status = StatusConnecting
	c.stopTimerLocked(&c.reconnect)

	old := c.conn
	c.conn = nil
	c.gen++
	c.mu.Unlock()

	if old != nil {
		old.CloseNow()
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.dialTimeout())
	conn, err := c.dialer.Dial(ctx, c.cfg.URL)
	cancel()

	if err != nil {
		c.logger.Warn("connect failed", "url", c.cfg.URL, "error", err)

		c.mu.Lock()
		c.connecting = false
		if c.destroyed {
			c.mu.Unlock()
			return
		}
		onError := c.handlers.OnError
		c.mu.Unlock()

		// A failed dial is treated exactly like an immediate close.
		onError(err)
		c.handleClose(0)
		return
	}

	c.mu.Lock()
	c.connecting = false
	if c.destroyed {
		c.mu.Unlock()
		conn.CloseNow()
		return
	}

	c.conn = conn
	c.gen++
	gen := c.gen
	c.status = StatusOpen
	c.attempts = 0
	c.stopTimerLocked(&c.reconnect)
	c.armHeartbeatLocked()

	queued := c.queue
	c.queue = nil
	h := c.handlers
	c.mu.Unlock()

	c.logger.Info("connected", "url", c.cfg.URL)

	for _, payload := range queued {
		if err := conn.Write(c.cfg.Encoding == EncodingBinary, payload); err != nil {
			c.logger.Warn("flush failed", "error", err)
			h.OnSendError(StatusOpen)
		}
	}

	h.OnConnected()

	go c.readLoop(conn, gen)
}

// readLoop delivers inbound frames for one connection generation. Any
// inbound traffic counts as liveness and re-arms the heartbeat check.
func (c *Client) readLoop(conn transport.Conn, gen uint64) {
	for {
		data, err := conn.Read()

		c.mu.Lock()
		if c.destroyed || gen != c.gen {
			c.mu.Unlock()
			return
		}

		if err != nil {
			onError := c.handlers.OnError
			c.mu.Unlock()

			if !transport.IsNormalClose(err) {
				// Errors are reported but never decide reconnection;
				// the close path below always does.
				onError(err)
			}
			c.handleClose(gen)
			return
		}

		c.armHeartbeatCheckLocked()
		c.cancelMessageTimeoutLocked()
		onMessage := c.handlers.OnMessage
		c.mu.Unlock()

		onMessage(data)
	}
}

// handleClose runs one failure episode: cancel timers, detach and close the
// connection, fire OnClosed once, then decide reconnection. The closing
// guard and the generation check together suppress duplicate episodes when
// a forced close and the transport's own close signal race.
func (c *Client) handleClose(gen uint64) {
	c.mu.Lock()
	if c.destroyed || c.closing || (gen != 0 && gen != c.gen) {
		c.mu.Unlock()
		return
	}
	c.closing = true
	c.status = StatusClosing

	c.stopTimerLocked(&c.heartbeatSend)
	c.cancelHeartbeatCheckLocked()
	c.cancelMessageTimeoutLocked()

	old := c.conn
	c.conn = nil
	c.gen++
	onClosed := c.handlers.OnClosed
	c.mu.Unlock()

	if old != nil {
		old.CloseNow()
	}

	onClosed()
	c.scheduleReconnect()
}

// scheduleReconnect arms the next reconnect attempt with backoff, or
// reports exhaustion and starts the cooldown that eventually resets the
// attempt counter.
func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.status = StatusClosed

	if c.attempts >= c.cfg.ReconnectAttempts {
		c.stopTimerLocked(&c.cooldown)
		c.cooldown = time.AfterFunc(cooldownPeriod, c.resetAttempts)
		onFailed := c.handlers.OnReconnectFailed
		c.mu.Unlock()

		c.logger.Warn("reconnect attempts exhausted",
			"attempts", c.cfg.ReconnectAttempts,
			"cooldown", cooldownPeriod,
		)
		onFailed()
		return
	}

	c.attempts++
	attempt := c.attempts
	remaining := c.cfg.ReconnectAttempts - c.attempts
	delay := backoffDelay(c.cfg.ReconnectInterval, attempt, c.cfg.JitterBound)
	onReconnecting := c.handlers.OnReconnecting
	c.mu.Unlock()

	c.logger.Info("reconnecting",
		"attempt", attempt,
		"remaining", remaining,
		"delay", delay,
	)
	onReconnecting(remaining)

	c.mu.Lock()
	if !c.destroyed {
		c.stopTimerLocked(&c.reconnect)
		c.reconnect = time.AfterFunc(delay, c.connect)
	}
	c.mu.Unlock()
}

// resetAttempts ends the post-exhaustion cooldown.
func (c *Client) resetAttempts() {
	c.mu.Lock()
	if !c.destroyed {
		c.attempts = 0
		c.stopTimerLocked(&c.cooldown)
	}
	c.mu.Unlock()
}

// armHeartbeatLocked starts both heartbeat timers. No-op without a
// heartbeat payload producer.
func (c *Client) armHeartbeatLocked() {
	if c.handlers.Heartbeat == nil {
		return
	}
	c.stopTimerLocked(&c.heartbeatSend)
	c.heartbeatSend = time.AfterFunc(
		c.cfg.HeartbeatInterval+jitter(c.cfg.JitterBound),
		c.sendHeartbeat,
	)
	c.armHeartbeatCheckLocked()
}

// armHeartbeatCheckLocked re-arms the one-shot liveness check. The arm
// carries the new sequence number, so an older check that already began
// expiring cannot act on this connection.
func (c *Client) armHeartbeatCheckLocked() {
	if c.handlers.Heartbeat == nil {
		return
	}
	c.cancelHeartbeatCheckLocked()
	seq := c.checkSeq
	c.heartbeatCheck = time.AfterFunc(
		c.cfg.HeartbeatTimeout+jitter(c.cfg.JitterBound),
		func() { c.heartbeatExpired(seq) },
	)
}

// cancelHeartbeatCheckLocked stops the liveness check and invalidates any
// expiry callback already past Stop's reach.
func (c *Client) cancelHeartbeatCheckLocked() {
	c.checkSeq++
	c.stopTimerLocked(&c.heartbeatCheck)
}

// cancelMessageTimeoutLocked does the same for the message timer.
func (c *Client) cancelMessageTimeoutLocked() {
	c.msgSeq++
	c.stopTimerLocked(&c.messageTimeout)
}

// sendHeartbeat writes one heartbeat payload and re-arms both timers.
// Never writes while not open.
func (c *Client) sendHeartbeat() {
	c.mu.Lock()
	if c.destroyed || c.conn == nil || c.status != StatusOpen || c.handlers.Heartbeat == nil {
		c.mu.Unlock()
		return
	}
	conn := c.conn
	produce := c.handlers.Heartbeat
	c.stopTimerLocked(&c.heartbeatSend)
	c.heartbeatSend = time.AfterFunc(
		c.cfg.HeartbeatInterval+jitter(c.cfg.JitterBound),
		c.sendHeartbeat,
	)
	// Ensure a liveness check is pending without pushing out one that
	// already is: only inbound traffic may extend the deadline.
	if c.heartbeatCheck == nil {
		c.armHeartbeatCheckLocked()
	}
	c.mu.Unlock()

	if err := conn.Write(c.cfg.Encoding == EncodingBinary, produce()); err != nil {
		c.logger.Debug("heartbeat write failed", "error", err)
	}
}

// heartbeatExpired fires when no inbound frame arrived within the
// heartbeat timeout: the peer is presumed dead and the connection is
// forcibly closed. A callback whose arm was superseded while it waited on
// the lock (inbound traffic re-armed the check, or the episode ended)
// returns without touching the live timer.
func (c *Client) heartbeatExpired(seq uint64) {
	c.mu.Lock()
	if c.destroyed || c.closing || c.conn == nil || seq != c.checkSeq {
		c.mu.Unlock()
		return
	}
	c.heartbeatCheck = nil // fired, the handle no longer refers to a live timer
	gen := c.gen
	onTimeout := c.handlers.OnHeartbeatTimeout
	c.mu.Unlock()

	c.logger.Warn("peer unresponsive, forcing close", "reason", "heartbeat timeout")
	onTimeout()
	c.handleClose(gen)
}

// messageExpired fires when a send saw no inbound frame within the message
// timeout. Same staleness rule, same treatment as a heartbeat timeout.
func (c *Client) messageExpired(seq uint64) {
	c.mu.Lock()
	if c.destroyed || c.closing || c.conn == nil || seq != c.msgSeq {
		c.mu.Unlock()
		return
	}
	c.messageTimeout = nil
	gen := c.gen
	onTimeout := c.handlers.OnHeartbeatTimeout
	c.mu.Unlock()

	c.logger.Warn("peer unresponsive, forcing close", "reason", "message timeout")
	onTimeout()
	c.handleClose(gen)
}

// dialTimeout returns the per-attempt dial deadline.
func (c *Client) dialTimeout() time.Duration {
	if c.cfg.HandshakeTimeout > 0 {
		return c.cfg.HandshakeTimeout
	}
	return transport.DefaultHandshakeTimeout
}

// stopTimerLocked cancels a timer handle and clears it, so handles are
// never left dangling after cancellation.
func (c *Client) stopTimerLocked(t **time.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
