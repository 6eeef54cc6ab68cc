package proxy

import "strings"

// BodyType selects how the relay encodes a request body and which
// Content-Type it sets on the outbound call.
type BodyType string

const (
	BodyTypeJSON       BodyType = "json"
	BodyTypeFormData   BodyType = "form-data"
	BodyTypeURLEncoded BodyType = "x-www-form-urlencoded"
	BodyTypeRaw        BodyType = "raw"
	BodyTypeBinary     BodyType = "binary"
)

// Descriptor is the caller-supplied declarative request. It lives for a
// single relay invocation.
type Descriptor struct {
	Method   string            `json:"method"`
	URL      string            `json:"url"`
	Headers  map[string]string `json:"headers,omitempty"`
	Body     string            `json:"body,omitempty"`
	BodyType BodyType          `json:"bodyType,omitempty"`
}

var allowedMethods = map[string]struct{}{
	"GET":     {},
	"POST":    {},
	"PUT":     {},
	"DELETE":  {},
	"PATCH":   {},
	"HEAD":    {},
	"OPTIONS": {},
}

// normalizedMethod upper-cases the method and defaults empty input to GET.
func normalizedMethod(method string) string {
	m := strings.ToUpper(strings.TrimSpace(method))
	if m == "" {
		return "GET"
	}
	return m
}

// allowsBody reports whether a body may be attached for the method.
func allowsBody(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// sanitizeHeaders copies caller headers, dropping any Host header. The
// transport must derive Host from the resolved target, not client input.
func sanitizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for name, value := range headers {
		if strings.EqualFold(name, "host") {
			continue
		}
		out[name] = value
	}
	return out
}
