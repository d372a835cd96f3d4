// Package channel implements the connection lifecycle core.
//
// A Client:
//   - Owns exactly one transport connection at a time
//   - Reconnects with exponential backoff and jitter, bounded per episode
//   - Detects dead peers via heartbeat and optional message timeouts
//   - Optionally buffers outbound payloads across reconnects
//   - Delivers every transition through a caller-supplied callback set
//
// A Registry maps integer channel IDs to Clients, guaranteeing at most one
// live Client per ID.
package channel
