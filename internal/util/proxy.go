// Package util provides utility functions shared across the WeWork CLI:
// proxy aware HTTP client setup, date argument parsing, secret redaction for
// debug logs, and small string helpers.
package util

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/dvcrn/wework-cli/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/proxy"
)

// SetProxy configures the provided HTTP client with proxy settings from the configuration.
// It supports SOCKS5, HTTP, and HTTPS proxies. The client's transport is replaced only
// when a proxy is configured; an invalid proxy URL is logged and ignored.
func SetProxy(cfg *config.SDKConfig, httpClient *http.Client) *http.Client {
	if cfg == nil || strings.TrimSpace(cfg.ProxyURL) == "" {
		return httpClient
	}
	var transport *http.Transport
	proxyURL, errParse := url.Parse(strings.TrimSpace(cfg.ProxyURL))
	if errParse != nil {
		log.Errorf("parse proxy URL failed: %v", errParse)
		return httpClient
	}
	switch proxyURL.Scheme {
	case "socks5", "socks5h":
		dialer, errSOCKS5 := socks5Dialer(proxyURL)
		if errSOCKS5 != nil {
			log.Errorf("create SOCKS5 dialer failed: %v", errSOCKS5)
			return httpClient
		}
		transport = cloneDefaultTransport()
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	case "http", "https":
		transport = cloneDefaultTransport()
		transport.Proxy = http.ProxyURL(proxyURL)
	default:
		log.Warnf("unsupported proxy scheme %q, ignoring proxy-url", proxyURL.Scheme)
	}
	if transport != nil {
		httpClient.Transport = transport
	}
	return httpClient
}

// ProxyDialer returns a dialer honoring a SOCKS5 or HTTP(S) proxy from cfg, or
// proxy.Direct when none is configured. Used by transports that dial raw TCP.
func ProxyDialer(cfg *config.SDKConfig) proxy.Dialer {
	if cfg == nil || strings.TrimSpace(cfg.ProxyURL) == "" {
		return proxy.Direct
	}
	proxyURL, err := url.Parse(strings.TrimSpace(cfg.ProxyURL))
	if err != nil {
		log.Errorf("failed to parse proxy URL %q: %v", cfg.ProxyURL, err)
		return proxy.Direct
	}
	if proxyURL.Scheme == "socks5" || proxyURL.Scheme == "socks5h" {
		dialer, errSOCKS5 := socks5Dialer(proxyURL)
		if errSOCKS5 != nil {
			log.Errorf("create SOCKS5 dialer failed: %v", errSOCKS5)
			return proxy.Direct
		}
		return dialer
	}
	dialer, err := proxy.FromURL(proxyURL, proxy.Direct)
	if err != nil {
		log.Errorf("failed to create proxy dialer for %q: %v", proxyURL.Redacted(), err)
		return proxy.Direct
	}
	return dialer
}

func socks5Dialer(proxyURL *url.URL) (proxy.Dialer, error) {
	var proxyAuth *proxy.Auth
	if proxyURL.User != nil {
		username := proxyURL.User.Username()
		password, _ := proxyURL.User.Password()
		proxyAuth = &proxy.Auth{User: username, Password: password}
	}
	return proxy.SOCKS5("tcp", proxyURL.Host, proxyAuth, proxy.Direct)
}

func cloneDefaultTransport() *http.Transport {
	if base, ok := http.DefaultTransport.(*http.Transport); ok {
		return base.Clone()
	}
	return &http.Transport{}
}
