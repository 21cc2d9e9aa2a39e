package wework

import (
	"net/http"
	"testing"

	"github.com/dvcrn/wework-cli/internal/config"
	tls "github.com/refraction-networking/utls"
)

func TestHelloForFingerprint(t *testing.T) {
	tests := []struct {
		name   string
		want   tls.ClientHelloID
		wantOK bool
	}{
		{name: "firefox", want: tls.HelloFirefox_Auto, wantOK: true},
		{name: " Chrome ", want: tls.HelloChrome_Auto, wantOK: true},
		{name: "safari", want: tls.HelloSafari_Auto, wantOK: true},
		{name: "ios", want: tls.HelloIOS_Auto, wantOK: true},
		{name: ""},
		{name: "netscape"},
	}
	for _, tt := range tests {
		got, ok := helloForFingerprint(tt.name)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("helloForFingerprint(%q) = %v, %v", tt.name, got, ok)
		}
	}
}

func TestNewFingerprintTransport(t *testing.T) {
	if _, ok := newFingerprintTransport(&config.SDKConfig{}); ok {
		t.Fatalf("fingerprint transport enabled without a setting")
	}
	rt, ok := newFingerprintTransport(&config.SDKConfig{TLSFingerprint: "safari"})
	if !ok {
		t.Fatalf("fingerprint transport not enabled for safari")
	}
	ft, isFingerprint := rt.(*fingerprintRoundTripper)
	if !isFingerprint {
		t.Fatalf("transport = %T", rt)
	}
	if ft.plain == nil || ft.dialer == nil {
		t.Fatalf("transport not fully initialised: %+v", ft)
	}
}

func TestNewSessionDoesNotFollowRedirects(t *testing.T) {
	s, err := NewSession(nil, http.DefaultTransport, nil)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if s.client.CheckRedirect == nil || s.client.CheckRedirect(nil, nil) != http.ErrUseLastResponse {
		t.Fatalf("session client follows redirects")
	}
	if s.client.Jar == nil {
		t.Fatalf("session has no cookie jar")
	}
}
