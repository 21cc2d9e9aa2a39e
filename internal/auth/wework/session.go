package wework

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/dvcrn/wework-cli/internal/config"
	"github.com/dvcrn/wework-cli/internal/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// Session is the cookie-bearing HTTP context of a single login attempt.
// Every step of the flow must go through the same Session because the identity
// provider correlates steps through cookies set early in the flow. A Session is
// owned by one attempt and is not safe for concurrent use.
type Session struct {
	client    *http.Client
	jar       http.CookieJar
	logger    *log.Entry
	logBodies bool
}

// response is a fully read HTTP response.
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        *url.URL
}

// NewSession builds a fresh Session with its own cookie jar. Redirects are
// never followed automatically. A non-nil transport replaces the proxy and
// TLS fingerprint setup derived from cfg.
func NewSession(cfg *config.Config, transport http.RoundTripper, logger *log.Entry) (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	client := &http.Client{
		Jar:     jar,
		Timeout: cfg.Timeout(),
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	switch {
	case transport != nil:
		client.Transport = transport
	default:
		if rt, ok := newFingerprintTransport(&cfg.SDKConfig); ok {
			client.Transport = rt
		} else {
			util.SetProxy(&cfg.SDKConfig, client)
		}
	}

	return &Session{
		client:    client,
		jar:       jar,
		logger:    logger,
		logBodies: cfg.RequestLog,
	}, nil
}

func (s *Session) get(ctx context.Context, step, rawURL string, header http.Header) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request failed: %w", step, err)
	}
	copyHeader(req.Header, header)
	return s.do(ctx, step, req)
}

func (s *Session) postJSON(ctx context.Context, step, rawURL string, payload any, header http.Header) (*response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request failed: %w", step, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: create request failed: %w", step, err)
	}
	copyHeader(req.Header, header)
	req.Header.Set("Content-Type", "application/json")
	if s.logBodies {
		s.logger.WithField("step", step).Debugf("request body: %s", util.RedactJSON(data))
	}
	return s.do(ctx, step, req)
}

func (s *Session) postForm(ctx context.Context, step, rawURL string, values url.Values, header http.Header) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: create request failed: %w", step, err)
	}
	copyHeader(req.Header, header)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(ctx, step, req)
}

func (s *Session) do(ctx context.Context, step string, req *http.Request) (*response, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, step, err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			s.logger.WithError(errClose).Debug("failed to close response body")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, classifyTransportError(ctx, step, err)
	}

	s.logger.WithFields(log.Fields{
		"step":   step,
		"method": req.Method,
		"host":   req.URL.Host,
		"path":   req.URL.Path,
		"status": resp.StatusCode,
	}).Debug("request completed")
	if s.logBodies && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		s.logger.WithField("step", step).Debugf("response body: %s", util.RedactJSON(body))
	}

	return &response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		URL:        req.URL,
	}, nil
}

// cookie returns the value of the named cookie the jar would send to u.
func (s *Session) cookie(u *url.URL, name string) string {
	for _, c := range s.jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func (s *Session) setCookies(u *url.URL, cookies []*http.Cookie) {
	s.jar.SetCookies(u, cookies)
}

func copyHeader(dst, src http.Header) {
	for key, values := range src {
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// resolveLocation resolves a Location header value against base.
func resolveLocation(base *url.URL, location string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(location))
	if err != nil {
		return nil, err
	}
	if base == nil {
		return ref, nil
	}
	return base.ResolveReference(ref), nil
}
