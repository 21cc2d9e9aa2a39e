package wework

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/dvcrn/wework-cli/internal/config"
	"github.com/dvcrn/wework-cli/internal/util"
	tls "github.com/refraction-networking/utls"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/proxy"
)

// helloForFingerprint maps a tls-fingerprint setting to a utls ClientHello.
func helloForFingerprint(name string) (tls.ClientHelloID, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "firefox":
		return tls.HelloFirefox_Auto, true
	case "chrome":
		return tls.HelloChrome_Auto, true
	case "safari":
		return tls.HelloSafari_Auto, true
	case "ios":
		return tls.HelloIOS_Auto, true
	default:
		return tls.ClientHelloID{}, false
	}
}

// fingerprintRoundTripper implements http.RoundTripper using utls so the TLS
// handshake looks like a browser's. HTTP/2 connections are cached per host;
// hosts that only negotiate HTTP/1.1 get one connection per request.
// Plain http requests go through the standard transport.
type fingerprintRoundTripper struct {
	// mu protects the connections map and pending map
	mu sync.Mutex
	// connections caches HTTP/2 client connections per host
	connections map[string]*http2.ClientConn
	// pending tracks hosts that are currently being connected to
	pending map[string]*sync.Cond
	// dialer creates network connections, supporting proxies
	dialer proxy.Dialer
	hello  tls.ClientHelloID
	plain  http.RoundTripper
}

// newFingerprintTransport returns a utls transport when cfg selects a fingerprint.
func newFingerprintTransport(cfg *config.SDKConfig) (http.RoundTripper, bool) {
	if cfg == nil {
		return nil, false
	}
	hello, ok := helloForFingerprint(cfg.TLSFingerprint)
	if !ok {
		if strings.TrimSpace(cfg.TLSFingerprint) != "" {
			log.Warnf("unknown tls-fingerprint %q, using the default TLS stack", cfg.TLSFingerprint)
		}
		return nil, false
	}
	plain := util.SetProxy(cfg, &http.Client{}).Transport
	if plain == nil {
		plain = http.DefaultTransport
	}
	return &fingerprintRoundTripper{
		connections: make(map[string]*http2.ClientConn),
		pending:     make(map[string]*sync.Cond),
		dialer:      util.ProxyDialer(cfg),
		hello:       hello,
		plain:       plain,
	}, true
}

// getOrCreateConnection returns a cached HTTP/2 connection for host, or dials a
// new one. When the server only speaks HTTP/1.1 the raw TLS connection is returned
// instead and nothing is cached.
func (t *fingerprintRoundTripper) getOrCreateConnection(ctx context.Context, host, addr string) (*http2.ClientConn, net.Conn, error) {
	t.mu.Lock()

	if h2Conn, ok := t.connections[host]; ok && h2Conn.CanTakeNewRequest() {
		t.mu.Unlock()
		return h2Conn, nil, nil
	}

	if cond, ok := t.pending[host]; ok {
		cond.Wait()
		if h2Conn, ok := t.connections[host]; ok && h2Conn.CanTakeNewRequest() {
			t.mu.Unlock()
			return h2Conn, nil, nil
		}
	}

	cond := sync.NewCond(&t.mu)
	t.pending[host] = cond
	t.mu.Unlock()

	h2Conn, h1Conn, err := t.createConnection(ctx, host, addr)

	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.pending, host)
	cond.Broadcast()

	if err != nil {
		return nil, nil, err
	}
	if h2Conn != nil {
		t.connections[host] = h2Conn
	}
	return h2Conn, h1Conn, nil
}

func (t *fingerprintRoundTripper) createConnection(ctx context.Context, host, addr string) (*http2.ClientConn, net.Conn, error) {
	var (
		conn net.Conn
		err  error
	)
	if cd, ok := t.dialer.(proxy.ContextDialer); ok {
		conn, err = cd.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = t.dialer.Dial("tcp", addr)
	}
	if err != nil {
		return nil, nil, err
	}

	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, t.hello)
	if err = tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if tlsConn.ConnectionState().NegotiatedProtocol != "h2" {
		return nil, tlsConn, nil
	}

	tr := &http2.Transport{}
	h2Conn, err := tr.NewClientConn(tlsConn)
	if err != nil {
		_ = tlsConn.Close()
		return nil, nil, err
	}
	return h2Conn, nil, nil
}

// RoundTrip implements http.RoundTripper
func (t *fingerprintRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.plain.RoundTrip(req)
	}

	addr := req.URL.Host
	if req.URL.Port() == "" {
		addr = net.JoinHostPort(req.URL.Hostname(), "443")
	}
	hostname := req.URL.Hostname()

	h2Conn, h1Conn, err := t.getOrCreateConnection(req.Context(), hostname, addr)
	if err != nil {
		return nil, err
	}
	if h1Conn != nil {
		return roundTripHTTP1(h1Conn, req)
	}

	resp, err := h2Conn.RoundTrip(req)
	if err != nil {
		t.mu.Lock()
		if cached, ok := t.connections[hostname]; ok && cached == h2Conn {
			delete(t.connections, hostname)
		}
		t.mu.Unlock()
		return nil, err
	}
	return resp, nil
}

// roundTripHTTP1 sends a single request over conn and closes conn with the body.
func roundTripHTTP1(conn net.Conn, req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.Close = true
	if err := out.Write(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("write request: %w", err)
	}
	resp, err := http.ReadResponse(bufio.NewReader(conn), out)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read response: %w", err)
	}
	resp.Body = &connClosingBody{ReadCloser: resp.Body, conn: conn}
	return resp, nil
}

type connClosingBody struct {
	io.ReadCloser
	conn net.Conn
}

func (b *connClosingBody) Close() error {
	err := b.ReadCloser.Close()
	if errConn := b.conn.Close(); err == nil {
		err = errConn
	}
	return err
}
