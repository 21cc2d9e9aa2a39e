// Package api is the client for the WeWork members REST API. It consumes the
// token pair produced by the login flow and never sees credentials.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dvcrn/wework-cli/internal/config"
	"github.com/dvcrn/wework-cli/internal/misc"
	"github.com/dvcrn/wework-cli/internal/util"
	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	log "github.com/sirupsen/logrus"
)

const (
	userUUIDClaim = "https://wework.com/user_uuid"

	requestSource = "MemberWeb/WorkplaceOne/Prod"
	memberType    = "2"
	dashboardPage = "/workplaceone/content2/dashboard"
	userAgent     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.3.1 Safari/605.1.15"
)

// claimAlgorithms are accepted when reading unverified claims from a token.
var claimAlgorithms = []jose.SignatureAlgorithm{
	jose.RS256, jose.RS384, jose.RS512,
	jose.ES256, jose.ES384, jose.ES512,
	jose.PS256, jose.HS256,
}

// Tokens is the bearer token pair handed over by the login flow.
type Tokens struct {
	// Primary is sent as Authorization.
	Primary string
	// Secondary is sent as WeWorkAuth.
	Secondary string
	// IDToken is only used to look up the user uuid claim.
	IDToken string
}

// Client talks to the members API on behalf of one logged-in member.
type Client struct {
	httpClient *http.Client
	baseURL    string
	header     http.Header
	now        func() time.Time
	logBodies  bool
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the client at another members origin.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient builds a members API client for tokens.
func NewClient(cfg *config.Config, tokens Tokens, opts ...Option) *Client {
	if cfg == nil {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}
	c := &Client{
		httpClient: util.SetProxy(&cfg.SDKConfig, &http.Client{Timeout: cfg.Timeout()}),
		baseURL:    strings.TrimRight(cfg.MembersBaseURL, "/"),
		now:        time.Now,
		logBodies:  cfg.RequestLog,
	}
	if c.baseURL == "" {
		c.baseURL = config.DefaultMembersBaseURL
	}
	for _, opt := range opts {
		opt(c)
	}
	c.header = c.buildHeader(tokens)
	return c
}

func (c *Client) buildHeader(tokens Tokens) http.Header {
	secondary := tokens.Secondary
	if secondary == "" {
		secondary = tokens.Primary
	}

	header := http.Header{}
	misc.ApplyDefaultHeaders(header, map[string]string{
		"Accept":           "application/json, text/plain, */*",
		"Content-Type":     "application/json",
		"Request-Source":   requestSource,
		"WeWorkMemberType": memberType,
		"Origin":           c.baseURL,
		"User-Agent":       userAgent,
		"Sec-Fetch-Mode":   "cors",
		"Sec-Fetch-Dest":   "empty",
		"Sec-Fetch-Site":   "same-origin",
		"fe-pg":            dashboardPage,
		"Referer":          c.baseURL + dashboardPage,
		"Accept-Encoding":  "gzip, deflate, br",
		"Accept-Language":  "en-US,en;q=0.9",
		"Authorization":    "Bearer " + tokens.Primary,
		"WeWorkAuth":       "Bearer " + secondary,
		"IsKube":           "true",
	})

	for _, token := range []string{secondary, tokens.Primary, tokens.IDToken} {
		if id := userUUIDFromToken(token); id != "" {
			header["WeWorkUUID"] = []string{id}
			break
		}
	}
	return header
}

// userUUIDFromToken reads the member uuid claim from a JWT without verifying
// its signature; the value is only echoed back to the API that issued it.
func userUUIDFromToken(token string) string {
	if strings.Count(token, ".") != 2 {
		return ""
	}
	parsed, err := jwt.ParseSigned(token, claimAlgorithms)
	if err != nil {
		return ""
	}
	var claims map[string]any
	if err = parsed.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return ""
	}
	id, _ := claims[userUUIDClaim].(string)
	return id
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, payload, out)
}

// do sends one request and decodes the JSON response into out. Non-2xx
// responses yield *HTTPError; error envelopes yield *EnvelopeError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
		if c.logBodies {
			log.WithField("path", path).Debugf("request body: %s", util.RedactJSON(data))
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	for key, values := range c.header {
		req.Header[key] = append([]string(nil), values...)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			log.WithError(errClose).Debug("failed to close members api response body")
		}
	}()

	data, err := readBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	entry := log.WithFields(log.Fields{"method": method, "path": path, "status": resp.StatusCode})
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		httpErr := newHTTPError(resp.StatusCode, data)
		entry.Warnf("members api request failed: %s", util.TruncateString(httpErr.Body, 200))
		return httpErr
	}
	entry.Debug("members api request completed")
	if c.logBodies {
		entry.Debugf("response body: %s", util.RedactJSON(data))
	}

	if err = checkEnvelope(data); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
