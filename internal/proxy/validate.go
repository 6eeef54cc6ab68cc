package proxy

import (
	"net/url"
	"strings"
)

// ValidationResult is the outcome of checking a candidate URL string.
// IsValid means the input is usable exactly as given; CanBeUsed means it is
// usable as given or after the correction in CorrectedURL.
type ValidationResult struct {
	IsValid      bool   `json:"isValid"`
	CanBeUsed    bool   `json:"canBeUsed"`
	Error        string `json:"error,omitempty"`
	CorrectedURL string `json:"correctedUrl,omitempty"`
}

// Validate decides whether a raw string denotes a usable HTTP(S) resource.
// Inputs without an explicit scheme are retried with an https:// prefix and,
// when that parses cleanly, reported as correctable rather than valid so the
// caller can surface a non-blocking hint while typing and auto-apply the
// correction on blur.
//
// This is a pure string check. It deliberately lets localhost through: the
// relay's deny list is the actual security boundary and re-checks every
// destination server-side.
func Validate(raw string) ValidationResult {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ValidationResult{Error: "URL is required"}
	}

	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		candidate := "https://" + trimmed
		parsed, err := url.Parse(candidate)
		if err != nil {
			return ValidationResult{Error: "Invalid URL format"}
		}
		if msg := checkHostname(parsed); msg != "" {
			return ValidationResult{Error: msg}
		}
		return ValidationResult{CanBeUsed: true, CorrectedURL: candidate}
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return ValidationResult{Error: "Invalid URL format"}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ValidationResult{Error: "Only HTTP and HTTPS protocols are supported"}
	}
	if msg := checkHostname(parsed); msg != "" {
		return ValidationResult{Error: msg}
	}
	return ValidationResult{IsValid: true, CanBeUsed: true}
}

func checkHostname(u *url.URL) string {
	host := u.Hostname()
	if len(host) < 2 {
		return "Invalid hostname"
	}
	if !strings.Contains(host, ".") && host != "localhost" {
		return "Invalid domain format"
	}
	return ""
}
