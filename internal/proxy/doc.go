// Package proxy implements the outbound request relay: the server-side
// pipeline that validates a caller-supplied request descriptor, blocks
// disallowed destinations, executes the real HTTP call, and normalizes
// the response into a bounded, safely-encoded envelope.
//
// The pipeline never trusts client-side validation. Every descriptor is
// re-parsed, re-checked against the private-network deny list, and executed
// under a hard timeout. Response bodies are classified by content type and
// encoded into a string the UI can always render: pretty-printed JSON,
// charset-normalized text, or a size-capped base64 preview for binary data.
//
// Invocations are independent and stateless; the only shared state is the
// immutable deny list and the configured limits, so the relay is safe under
// arbitrary concurrency.
package proxy
