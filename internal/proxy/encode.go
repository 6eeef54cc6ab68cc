package proxy

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// payloadKind is the closed set of response body classifications.
type payloadKind uint8

const (
	kindJSON payloadKind = iota + 1
	kindText
	kindBinary
)

// textMediaTypes are the non-text/* media types still rendered verbatim.
var textMediaTypes = map[string]struct{}{
	"application/xml":        {},
	"application/javascript": {},
	"application/xhtml+xml":  {},
}

// encodeResponse normalizes a response body into a string the UI can always
// render, dispatching on the classified kind. previewLimit bounds how many
// binary bytes are base64-encoded for inline preview.
func encodeResponse(contentType string, body []byte, previewLimit int64) string {
	switch classify(contentType, body) {
	case kindJSON:
		return encodeJSON(body)
	case kindText:
		return decodeText(contentType, body)
	default:
		return encodeBinary(body, previewLimit)
	}
}

// classify inspects the response Content-Type; when the target sent none,
// the payload itself is sniffed.
func classify(contentType string, body []byte) payloadKind {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		return sniff(body)
	}
	switch {
	case mediaType == "application/json":
		return kindJSON
	case strings.HasPrefix(mediaType, "text/"):
		return kindText
	default:
		if _, ok := textMediaTypes[mediaType]; ok {
			return kindText
		}
		return kindBinary
	}
}

func sniff(body []byte) payloadKind {
	detected := mimetype.Detect(body)
	if detected.Is("application/json") {
		return kindJSON
	}
	for m := detected; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return kindText
		}
	}
	return kindBinary
}

// encodeJSON re-serializes the payload pretty-printed with 2-space indent.
func encodeJSON(body []byte) string {
	var value interface{}
	if err := json.Unmarshal(body, &value); err != nil {
		return "Unable to parse response body"
	}
	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "Unable to parse response body"
	}
	return string(pretty)
}

// decodeText returns the body verbatim when it is already valid UTF-8,
// otherwise converts it using the declared or detected charset so legacy
// encodings still render.
func decodeText(contentType string, body []byte) string {
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if label, ok := params["charset"]; ok && !strings.EqualFold(label, "utf-8") {
			return convertCharset(label, body)
		}
	}
	if utf8.Valid(body) {
		return string(body)
	}
	if result, err := chardet.NewTextDetector().DetectBest(body); err == nil {
		return convertCharset(result.Charset, body)
	}
	return string(body)
}

func convertCharset(label string, body []byte) string {
	reader, err := charset.NewReaderLabel(label, bytes.NewReader(body))
	if err != nil {
		return string(body)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}

// encodeBinary emits a preview string for binary payloads. Within the limit
// the string carries a size header plus the full base64 payload after the
// literal "Base64: " marker, which the caller parses back out to reconstruct
// a downloadable blob. Beyond the limit only a placeholder is emitted.
func encodeBinary(body []byte, previewLimit int64) string {
	size := int64(len(body))
	if size > previewLimit {
		return fmt.Sprintf(
			"Binary response: %d bytes (%.2f MB). Too large to preview; use download instead.",
			size, float64(size)/(1024*1024),
		)
	}
	return fmt.Sprintf(
		"Binary response: %d bytes (%.2f KB)\nBase64: %s",
		size, float64(size)/1024, base64.StdEncoding.EncodeToString(body),
	)
}
