// Package ws streams request-history events to connected UI clients over
// WebSocket. The hub fans out one event per completed relay invocation;
// slow clients are dropped rather than allowed to block the broadcast.
package ws
