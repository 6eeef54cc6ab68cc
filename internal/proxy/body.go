package proxy

import (
	"bytes"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// outboundBody is an encoded request body ready for transmission. An empty
// contentType means the caller's own Content-Type header (or none) stands.
type outboundBody struct {
	payload     []byte
	contentType string
}

// buildBody encodes the descriptor body for its declared type. JSON bodies
// are validated before any network call is made; the original byte sequence
// is forwarded unmodified on success.
func buildBody(bodyType BodyType, body string) (*outboundBody, *Error) {
	switch bodyType {
	case BodyTypeJSON:
		if !gjson.Valid(body) {
			return nil, Invalid("Invalid JSON in request body")
		}
		return &outboundBody{payload: []byte(body), contentType: "application/json"}, nil

	case BodyTypeURLEncoded:
		return &outboundBody{payload: []byte(body), contentType: "application/x-www-form-urlencoded"}, nil

	case BodyTypeFormData:
		return buildMultipart(body)

	case BodyTypeRaw, BodyTypeBinary, "":
		return &outboundBody{payload: []byte(body)}, nil

	default:
		return nil, Invalid("Unsupported body type")
	}
}

// buildMultipart interprets the body as newline-separated key=value pairs.
// Values may contain '='; only the first one splits. Keys and values are
// URL-decoded. Malformed entries are skipped silently; only an assembly
// failure rejects the whole body.
func buildMultipart(body string) (*outboundBody, *Error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		rawKey, rawValue, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}
		if err := writer.WriteField(key, value); err != nil {
			return nil, Invalid("Invalid form-data format")
		}
	}
	if err := writer.Close(); err != nil {
		return nil, Invalid("Invalid form-data format")
	}

	return &outboundBody{payload: buf.Bytes(), contentType: writer.FormDataContentType()}, nil
}
