// Package config provides configuration management for the WeWork CLI.
// It handles loading and parsing the YAML configuration file, environment
// overrides, and provides structured access to transport, logging, and
// calendar publishing settings.
package config

import "time"

// SDKConfig holds the outbound HTTP settings shared by every client the CLI builds.
type SDKConfig struct {
	// ProxyURL is the URL of an optional proxy server to use for outbound requests.
	// Supported schemes are socks5, http and https.
	ProxyURL string `yaml:"proxy-url" json:"proxy-url"`

	// RequestTimeout bounds a single HTTP request, in seconds.
	// <= 0 falls back to DefaultRequestTimeout.
	RequestTimeout int `yaml:"request-timeout,omitempty" json:"request-timeout,omitempty"`

	// TLSFingerprint selects a browser ClientHello for the identity provider hosts.
	// Empty uses the standard library TLS stack. Accepted: firefox, chrome, safari.
	TLSFingerprint string `yaml:"tls-fingerprint,omitempty" json:"tls-fingerprint,omitempty"`

	// RequestLog enables debug logging of redacted request and response bodies.
	RequestLog bool `yaml:"request-log" json:"request-log"`
}

// Timeout returns the per-request timeout as a duration.
func (c *SDKConfig) Timeout() time.Duration {
	if c == nil || c.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return time.Duration(c.RequestTimeout) * time.Second
}
