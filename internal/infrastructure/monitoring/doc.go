// Package monitoring provides Prometheus metrics for the HTTP server and
// the outbound relay, plus a gin middleware that records every request.
package monitoring
