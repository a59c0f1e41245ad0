package errors

import "strings"

// ignorableErrorSubstrings lists error fragments produced by clients going
// away mid-request. These are logged at debug level instead of error level.
var ignorableErrorSubstrings = []string{
	"context canceled",
	"connection reset by peer",
	"broken pipe",
	"client disconnected",
	"request canceled",
	"use of closed network connection",
}

// IsIgnorableError reports whether an error is caused by the client
// disconnecting rather than a server-side fault.
func IsIgnorableError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, substr := range ignorableErrorSubstrings {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
