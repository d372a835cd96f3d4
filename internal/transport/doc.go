// Package transport wraps the raw WebSocket primitive behind a small
// Conn/Dialer seam.
//
// The lifecycle state machine in internal/channel depends only on the
// interfaces defined here, so it can be driven by fakes in tests. The
// production implementation is backed by gorilla/websocket.
package transport
