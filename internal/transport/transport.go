package transport

import (
	"context"
	"errors"
)

// Errors
var (
	ErrClosed = errors.New("connection closed")
)

// Conn is a single bidirectional socket connection. Implementations must
// allow Write, Close and CloseNow to be called concurrently with a blocked
// Read.
type Conn interface {
	// Read blocks until the next inbound frame arrives and returns its
	// payload. It returns an error once the connection is closed by either
	// side; after the first error no further frames will be delivered.
	Read() ([]byte, error)

	// Write sends one outbound frame. Binary selects the frame type.
	Write(binary bool, data []byte) error

	// Close performs a graceful shutdown, announcing the closure to the
	// peer before releasing the socket.
	Close() error

	// CloseNow tears the socket down immediately without a closing
	// handshake. Used when superseding a connection that may be dead.
	CloseNow() error
}

// Dialer opens new connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}
