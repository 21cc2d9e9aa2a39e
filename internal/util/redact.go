package util

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const redactedValue = "[REDACTED]"

// SensitiveJSONPaths lists the top level fields that must never reach a log line.
var SensitiveJSONPaths = []string{
	"password",
	"code",
	"code_verifier",
	"access_token",
	"id_token",
	"refresh_token",
	"token",
	"idToken",
	"accessToken",
	"refreshToken",
	"a0token",
	"a0rtoken",
	"a0Tokens",
	"_csrf",
}

// RedactJSON returns a copy of body with every sensitive field replaced by a marker.
// Extra paths use gjson/sjson path syntax. Non-JSON input is replaced entirely.
func RedactJSON(body []byte, extraPaths ...string) []byte {
	if len(body) == 0 {
		return body
	}
	if !gjson.ValidBytes(body) {
		return []byte(redactedValue)
	}
	out := append([]byte(nil), body...)
	paths := append(append([]string(nil), SensitiveJSONPaths...), extraPaths...)
	for _, path := range paths {
		if !gjson.GetBytes(out, path).Exists() {
			continue
		}
		updated, err := sjson.SetBytes(out, path, redactedValue)
		if err != nil {
			continue
		}
		out = updated
	}
	return out
}

// TruncateString shortens s to at most max runes, appending an ellipsis when cut.
func TruncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}
