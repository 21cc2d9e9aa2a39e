// Package misc provides small helpers for HTTP header manipulation, redirect
// parameter parsing and config template handling that don't fit into more
// specific packages.
package misc

import (
	"net/http"
	"strings"
)

// EnsureHeader ensures that a header exists in the target header map by checking
// multiple sources in order of priority: source headers, existing target headers,
// and finally the default value. It only sets the header if it's not already present
// and the value is not empty after trimming whitespace.
//
// Parameters:
//   - target: The target header map to modify
//   - source: The source header map to check first (can be nil)
//   - key: The header key to ensure
//   - defaultValue: The default value to use if no other source provides a value
func EnsureHeader(target http.Header, source http.Header, key, defaultValue string) {
	if target == nil {
		return
	}
	if source != nil {
		if val := strings.TrimSpace(source.Get(key)); val != "" {
			target.Set(key, val)
			return
		}
	}
	if strings.TrimSpace(target.Get(key)) != "" {
		return
	}
	if val := strings.TrimSpace(defaultValue); val != "" {
		target.Set(key, val)
	}
}

// ApplyDefaultHeaders copies every header in defaults into target unless target
// already carries a non-empty value for it. Keys that are not canonical MIME
// header keys (e.g. "fe-pg") are written verbatim.
func ApplyDefaultHeaders(target http.Header, defaults map[string]string) {
	if target == nil {
		return
	}
	for key, value := range defaults {
		canonical := http.CanonicalHeaderKey(key)
		if canonical != key {
			if len(target[key]) == 0 && strings.TrimSpace(value) != "" {
				target[key] = []string{value}
			}
			continue
		}
		EnsureHeader(target, nil, key, value)
	}
}
