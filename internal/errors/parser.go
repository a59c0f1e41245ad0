package errors

import (
	"strings"

	"github.com/tidwall/gjson"
)

// maxErrorBodyLength caps how much of an upstream error body is surfaced.
const maxErrorBodyLength = 2048

// ParseUpstreamError extracts a human-readable message from a detection
// provider's error body. Providers disagree on shape, so several common
// layouts are probed before falling back to the raw body.
func ParseUpstreamError(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	raw := string(body)

	if gjson.Valid(raw) {
		for _, path := range []string{"error.message", "error_msg", "error", "message"} {
			if result := gjson.Get(raw, path); result.Exists() && result.Type == gjson.String {
				if msg := strings.TrimSpace(result.String()); msg != "" {
					return truncateString(msg, maxErrorBodyLength)
				}
			}
		}
	}

	return truncateString(strings.TrimSpace(raw), maxErrorBodyLength)
}

// truncateString shortens s to at most maxLength bytes.
func truncateString(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength]
}
