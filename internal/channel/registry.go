package channel

import (
	"log/slog"
	"sync"

	"github.com/sockline/sockline/internal/transport"
)

// Registry maps integer channel IDs to Client instances. At most one live
// Client exists per ID: Create destroys any prior instance for the same ID
// before registering a replacement. There is no process-wide state; each
// Registry owns its own mapping.
type Registry struct {
	logger *slog.Logger

	mu       sync.Mutex
	channels map[int]*Client
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:   logger,
		channels: make(map[int]*Client),
	}
}

// Create builds a Client for id, tearing down any existing one first.
func (r *Registry) Create(id int, cfg Config, handlers Handlers, opts ...Option) *Client {
	r.mu.Lock()
	prev := r.channels[id]
	delete(r.channels, id)
	r.mu.Unlock()

	if prev != nil {
		r.logger.Info("replacing channel", "id", id)
		prev.Destroy()
	}

	opts = append([]Option{WithLogger(r.logger.With("channel_id", id))}, opts...)
	client := New(cfg, handlers, opts...)

	r.mu.Lock()
	displaced := r.channels[id]
	r.channels[id] = client
	r.mu.Unlock()

	// A concurrent Create for the same id may have registered between the
	// two critical sections. The later registration wins and the displaced
	// client is torn down, so at most one live instance holds the id.
	if displaced != nil {
		r.logger.Info("replacing channel", "id", id)
		displaced.Destroy()
	}

	return client
}

// Remove destroys and unregisters the Client for id. No-op when absent.
func (r *Registry) Remove(id int) {
	r.mu.Lock()
	client := r.channels[id]
	delete(r.channels, id)
	r.mu.Unlock()

	if client != nil {
		client.Destroy()
	}
}

// Send forwards payload to the Client for id. Returns false when no
// channel is registered for id or the send itself fails.
func (r *Registry) Send(id int, payload []byte) bool {
	r.mu.Lock()
	client := r.channels[id]
	r.mu.Unlock()

	if client == nil {
		return false
	}
	return client.Send(payload)
}

// Get returns the raw transport handle for id, or nil.
func (r *Registry) Get(id int) transport.Conn {
	r.mu.Lock()
	client := r.channels[id]
	r.mu.Unlock()

	if client == nil {
		return nil
	}
	return client.Connection()
}

// Client returns the registered Client for id, or nil.
func (r *Registry) Client(id int) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channels[id]
}

// Len returns the number of registered channels.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels)
}

// DestroyAll tears down every registered channel.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	clients := make([]*Client, 0, len(r.channels))
	for _, c := range r.channels {
		clients = append(clients, c)
	}
	r.channels = make(map[int]*Client)
	r.mu.Unlock()

	for _, c := range clients {
		c.Destroy()
	}
}
