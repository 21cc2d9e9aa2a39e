package wework

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/dvcrn/wework-cli/internal/util"
	"github.com/tidwall/gjson"
)

// ErrorType classifies a failed login attempt.
type ErrorType string

const (
	TypeConfigFetchFailed    ErrorType = "config_fetch_failed"
	TypeProtocolMismatch     ErrorType = "protocol_mismatch"
	TypeAuthenticationFailed ErrorType = "authentication_failed"
	TypeTokenExchangeFailed  ErrorType = "token_exchange_failed"
	TypeTransientNetwork     ErrorType = "transient_network"
)

// AuthenticationError represents a failed step of the login flow.
type AuthenticationError struct {
	// Type is the failure class.
	Type ErrorType `json:"type"`
	// Message is a human-readable message describing the error.
	Message string `json:"message"`
	// StatusCode is the HTTP status of the failing response, if any.
	StatusCode int `json:"status_code,omitempty"`
	// Body is the provider response body, kept for diagnostics.
	Body string `json:"body,omitempty"`
	// Cause is the underlying error that caused this authentication error.
	Cause error `json:"-"`
}

// Error returns a string representation of the authentication error.
func (e *AuthenticationError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Type))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Body != "" {
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

// Unwrap exposes the underlying cause.
func (e *AuthenticationError) Unwrap() error { return e.Cause }

// Is matches any AuthenticationError of the same type, so callers can test
// errors.Is(err, ErrProtocolMismatch).
func (e *AuthenticationError) Is(target error) bool {
	t, ok := target.(*AuthenticationError)
	return ok && t != nil && t.Type == e.Type
}

// Base errors for each failure class.
var (
	// ErrConfigFetchFailed means the provider configuration could not be retrieved.
	ErrConfigFetchFailed = &AuthenticationError{
		Type:    TypeConfigFetchFailed,
		Message: "failed to fetch identity provider configuration",
	}

	// ErrProtocolMismatch means an expected redirect, form or parameter was absent.
	ErrProtocolMismatch = &AuthenticationError{
		Type:    TypeProtocolMismatch,
		Message: "identity provider responded with an unexpected flow",
	}

	// ErrAuthenticationFailed means the provider rejected the credentials.
	ErrAuthenticationFailed = &AuthenticationError{
		Type:    TypeAuthenticationFailed,
		Message: "credentials were rejected",
	}

	// ErrTokenExchangeFailed means the code exchange or backend login failed.
	ErrTokenExchangeFailed = &AuthenticationError{
		Type:    TypeTokenExchangeFailed,
		Message: "failed to exchange authorization code for tokens",
	}

	// ErrTransientNetwork means a connection-level failure that may succeed on retry.
	ErrTransientNetwork = &AuthenticationError{
		Type:    TypeTransientNetwork,
		Message: "network error",
	}
)

// NewAuthenticationError creates a new authentication error with a cause based on a base error.
func NewAuthenticationError(baseErr *AuthenticationError, cause error) *AuthenticationError {
	return &AuthenticationError{
		Type:    baseErr.Type,
		Message: baseErr.Message,
		Cause:   cause,
	}
}

// newStepError builds an error of the base type with a step-specific message and
// the offending response attached.
func newStepError(baseErr *AuthenticationError, message string, status int, body []byte) *AuthenticationError {
	if message == "" {
		message = baseErr.Message
	}
	return &AuthenticationError{
		Type:       baseErr.Type,
		Message:    message,
		StatusCode: status,
		Body:       clipBody(body),
	}
}

// clipBody keeps at most maxErrorBodyRunes runes of a response body.
func clipBody(body []byte) string {
	return util.TruncateString(strings.TrimSpace(string(body)), maxErrorBodyRunes)
}

// classifyTransportError maps a client.Do failure to the taxonomy. Context
// cancellation is returned unchanged so callers can tell it apart from network trouble.
func classifyTransportError(ctx context.Context, step string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w", step, ctxErr)
	}
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return err
	}
	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		e := NewAuthenticationError(ErrTransientNetwork, err)
		e.Message = step + " request failed"
		return e
	}
	return fmt.Errorf("%s: %w", step, err)
}

// ProviderError is the JSON error document the identity provider returns from
// the credential login endpoint.
type ProviderError struct {
	Name        string
	Code        string
	Description string
	Message     string
	StatusCode  int
}

// parseProviderError extracts the provider's JSON error fields, or nil when the
// body is not such a document.
func parseProviderError(body []byte) *ProviderError {
	if !gjson.ValidBytes(body) {
		return nil
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil
	}
	pe := &ProviderError{
		Name:        parsed.Get("name").String(),
		Code:        parsed.Get("code").String(),
		Description: parsed.Get("description").String(),
		Message:     parsed.Get("message").String(),
		StatusCode:  int(parsed.Get("statusCode").Int()),
	}
	if pe.Description == "" {
		pe.Description = parsed.Get("error_description").String()
	}
	if pe.Code == "" {
		pe.Code = parsed.Get("error").String()
	}
	if pe.Description == "" && pe.Message == "" && pe.Code == "" {
		return nil
	}
	return pe
}

// Summary returns the most specific human-readable text of the error document.
func (p *ProviderError) Summary() string {
	switch {
	case p.Description != "":
		return p.Description
	case p.Message != "":
		return p.Message
	default:
		return p.Code
	}
}

// IsAuthenticationError checks if an error is an authentication error.
func IsAuthenticationError(err error) bool {
	var authenticationError *AuthenticationError
	return errors.As(err, &authenticationError)
}

// IsTransient reports whether err is a connection-level failure worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientNetwork)
}

// GetUserFriendlyMessage returns a user-friendly error message based on the error type.
func GetUserFriendlyMessage(err error) string {
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		if errors.Is(err, context.Canceled) {
			return "Login was cancelled."
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "Login timed out. Please try again."
		}
		return "An unexpected error occurred during login. Please try again."
	}
	switch authErr.Type {
	case TypeConfigFetchFailed:
		return "Could not load the WeWork login configuration. Check your network connection and try again."
	case TypeProtocolMismatch:
		return "The WeWork login flow changed unexpectedly. Run again with --debug and report the output."
	case TypeAuthenticationFailed:
		if authErr.Message != "" && authErr.Message != ErrAuthenticationFailed.Message {
			return fmt.Sprintf("WeWork rejected the login: %s", authErr.Message)
		}
		return "WeWork rejected the username or password."
	case TypeTokenExchangeFailed:
		return "Signing in to WeWork failed after the password step. Please try again."
	case TypeTransientNetwork:
		return "Network error while contacting WeWork. Please try again."
	default:
		return "Authentication failed. Please try again."
	}
}
