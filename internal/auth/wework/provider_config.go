package wework

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ProviderConfig is the identity provider configuration published by the members backend.
// It is fetched once per attempt and not modified afterwards.
type ProviderConfig struct {
	Domain      string `json:"domain"`
	ClientID    string `json:"client_id"`
	Audience    string `json:"audience"`
	RedirectURI string `json:"redirect_uri"`
}

func (c *ProviderConfig) normalize() {
	domain := strings.TrimSpace(c.Domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	c.Domain = strings.TrimRight(domain, "/")
	c.ClientID = strings.TrimSpace(c.ClientID)
	c.Audience = strings.TrimSpace(c.Audience)
	c.RedirectURI = strings.TrimSpace(c.RedirectURI)
}

func (c *ProviderConfig) missingFields() []string {
	var missing []string
	if c.Domain == "" {
		missing = append(missing, "domain")
	}
	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if c.Audience == "" {
		missing = append(missing, "audience")
	}
	if c.RedirectURI == "" {
		missing = append(missing, "redirect_uri")
	}
	return missing
}

// providerConfigURL returns the config endpoint under membersBaseURL.
func providerConfigURL(membersBaseURL string) string {
	q := url.Values{}
	q.Set("companyId", configCompanyID)
	q.Set("domain", membersDomain)
	return strings.TrimRight(membersBaseURL, "/") + providerConfigPath + "?" + q.Encode()
}

// FetchProviderConfig retrieves the identity provider configuration through s.
// Every failure is reported as ErrConfigFetchFailed, except transport errors
// which keep their transient classification.
func FetchProviderConfig(ctx context.Context, s *Session, configURL string) (*ProviderConfig, error) {
	header := http.Header{}
	header.Set("Accept", "application/json, text/plain, */*")
	header.Set("User-Agent", browserUserAgent)

	resp, err := s.get(ctx, "config", configURL, header)
	if err != nil {
		if IsAuthenticationError(err) || ctx.Err() != nil {
			return nil, err
		}
		return nil, NewAuthenticationError(ErrConfigFetchFailed, err)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, newStepError(ErrConfigFetchFailed, "config endpoint returned an error", resp.StatusCode, resp.Body)
	}

	var cfg ProviderConfig
	if err = json.Unmarshal(resp.Body, &cfg); err != nil {
		e := newStepError(ErrConfigFetchFailed, "config response is not valid JSON", resp.StatusCode, resp.Body)
		e.Cause = err
		return nil, e
	}
	cfg.normalize()
	if missing := cfg.missingFields(); len(missing) > 0 {
		return nil, newStepError(ErrConfigFetchFailed, fmt.Sprintf("config response is missing %s", strings.Join(missing, ", ")), resp.StatusCode, resp.Body)
	}
	return &cfg, nil
}
