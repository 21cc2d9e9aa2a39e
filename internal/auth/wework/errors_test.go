package wework

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAuthenticationErrorIs(t *testing.T) {
	err := newStepError(ErrProtocolMismatch, "authorize redirect carries no state parameter", 302, nil)
	wrapped := fmt.Errorf("login: %w", err)

	if !errors.Is(wrapped, ErrProtocolMismatch) {
		t.Fatalf("errors.Is(%v, ErrProtocolMismatch) = false", wrapped)
	}
	if errors.Is(wrapped, ErrAuthenticationFailed) {
		t.Fatalf("protocol mismatch matched ErrAuthenticationFailed")
	}
	if !IsAuthenticationError(wrapped) {
		t.Fatalf("IsAuthenticationError() = false")
	}
}

func TestClassifyTransportError(t *testing.T) {
	urlErr := &url.Error{Op: "Get", URL: "https://idp.test/authorize", Err: errors.New("connection refused")}

	err := classifyTransportError(context.Background(), "authorize", urlErr)
	if !IsTransient(err) {
		t.Fatalf("url error not transient: %v", err)
	}
	if !errors.Is(err, urlErr) {
		t.Fatalf("cause lost: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = classifyTransportError(ctx, "authorize", urlErr)
	if IsTransient(err) || !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled context classified as %v", err)
	}

	if err = classifyTransportError(context.Background(), "token", errors.New("boom")); IsTransient(err) {
		t.Fatalf("plain error classified as transient: %v", err)
	}
}

func TestParseProviderError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "auth0 validation error", body: `{"name":"ValidationError","code":"invalid_user_password","description":"Wrong email or password.","statusCode":401}`, want: "Wrong email or password."},
		{name: "oauth error", body: `{"error":"invalid_grant","error_description":"Invalid authorization code"}`, want: "Invalid authorization code"},
		{name: "message only", body: `{"message":"Too many attempts"}`, want: "Too many attempts"},
		{name: "code only", body: `{"error":"access_denied"}`, want: "access_denied"},
		{name: "html", body: `<html>error</html>`},
		{name: "unrelated json", body: `{"ok":false}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := parseProviderError([]byte(tt.body))
			if tt.want == "" {
				if pe != nil {
					t.Fatalf("parseProviderError() = %+v, want nil", pe)
				}
				return
			}
			if pe == nil || pe.Summary() != tt.want {
				t.Fatalf("parseProviderError() = %+v, want summary %q", pe, tt.want)
			}
		})
	}
}

func TestAuthenticationErrorBodyIsClipped(t *testing.T) {
	err := newStepError(ErrAuthenticationFailed, "", 401, []byte(strings.Repeat("x", maxErrorBodyRunes+100)))
	if n := utf8.RuneCountInString(err.Body); n != maxErrorBodyRunes {
		t.Fatalf("body runes = %d, want %d", n, maxErrorBodyRunes)
	}
	if err.Message != ErrAuthenticationFailed.Message {
		t.Fatalf("message = %q", err.Message)
	}
}

func TestAuthenticationErrorBodyClipKeepsUTF8(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "two byte runes", body: strings.Repeat("é", maxErrorBodyRunes+10)},
		{name: "three byte runes", body: strings.Repeat("認証", maxErrorBodyRunes)},
		{name: "odd byte offset", body: "x" + strings.Repeat("🔒", maxErrorBodyRunes)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newStepError(ErrProtocolMismatch, "", 403, []byte(tt.body))
			if !utf8.ValidString(err.Body) {
				t.Fatalf("clipped body is not valid UTF-8")
			}
			if !strings.HasSuffix(err.Body, "…") {
				t.Fatalf("clipped body has no ellipsis")
			}
			if n := utf8.RuneCountInString(err.Body); n != maxErrorBodyRunes {
				t.Fatalf("body runes = %d, want %d", n, maxErrorBodyRunes)
			}
		})
	}
}

func TestGetUserFriendlyMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: newStepError(ErrAuthenticationFailed, "Wrong email or password.", 401, nil), want: "Wrong email or password."},
		{err: NewAuthenticationError(ErrTransientNetwork, errors.New("reset")), want: "Network error"},
		{err: context.DeadlineExceeded, want: "timed out"},
		{err: ErrProtocolMismatch, want: "--debug"},
	}
	for _, tt := range tests {
		if got := GetUserFriendlyMessage(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("GetUserFriendlyMessage(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}
