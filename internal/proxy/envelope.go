package proxy

import (
	"net/http"
	"strings"
)

// Envelope is the normalized response returned to the caller. Data is the
// already-encoded body string; Size is its byte length as encoded, not the
// original response size.
type Envelope struct {
	Status      int               `json:"status"`
	StatusText  string            `json:"statusText"`
	Headers     map[string]string `json:"headers"`
	Data        string            `json:"data"`
	Time        int64             `json:"time"`
	Size        int64             `json:"size"`
	ContentType string            `json:"contentType"`
}

// flattenHeaders lower-cases response header names, keeps the first value of
// each, and injects the synthetic x-original-url entry the caller uses for
// filename inference on download.
func flattenHeaders(header http.Header, requestedURL string) map[string]string {
	out := make(map[string]string, len(header)+1)
	for name, values := range header {
		if len(values) == 0 {
			continue
		}
		out[strings.ToLower(name)] = values[0]
	}
	out["x-original-url"] = requestedURL
	return out
}
