// Package main is the entry point for the Quiver backend server.
//
// The server is the trusted half of an in-browser REST client: it relays
// outbound HTTP requests on behalf of the browser UI, normalizes responses
// into a safe-to-render envelope, and persists per-user collections,
// environments, and request history.
//
// The server provides:
//   - Outbound request relay with private-network blocking
//   - Account and bearer-token session management
//   - Collection, environment, and history CRUD
//   - WebSocket streaming of recorded history
//   - Rate limiting and Prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8090
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
