// Package utils provides shared helpers for configuration, logging and
// database error classification.
package utils

import (
	"os"
	"strconv"
	"strings"
)

// GetEnvOrDefault returns the value of the environment variable or the
// provided default when the variable is unset or empty.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseInteger parses an environment-style integer value, falling back to the
// default on empty or malformed input.
func ParseInteger(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ParseBoolean parses an environment-style boolean value, falling back to the
// default on empty or malformed input.
func ParseBoolean(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// SplitAndTrim splits s by sep and trims whitespace from each element,
// dropping empties.
func SplitAndTrim(s string, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
