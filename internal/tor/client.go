package tor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// checkProxyTimeout bounds the SOCKS5 handshake probe.
// The probe talks to the local daemon only, so it should answer quickly.
const checkProxyTimeout = 2 * time.Second

// Client routes connections through a Tor SOCKS5 proxy.
// It is an explicit transport object: nothing outside the HTTP clients it
// creates is affected, so direct and proxied clients can coexist in tests.
type Client struct {
	// proxyAddress is the Tor SOCKS5 proxy address in "host:port" format.
	proxyAddress string

	// dialer is the SOCKS5 dialer shared by every HTTP client we create.
	dialer proxy.Dialer

	// timeout is the per-request timeout of created HTTP clients.
	timeout time.Duration
}

// NewClient creates a Tor client for the given proxy address and timeout.
//
// The proxyAddress must be in "host:port" format (e.g., "127.0.0.1:9050").
// No connection is made here; call CheckConnection to probe the proxy.
func NewClient(proxyAddress string, timeout time.Duration) (*Client, error) {
	if !isValidProxyAddress(proxyAddress) {
		return nil, ErrInvalidProxyAddress
	}

	// Tor's SOCKS port does not require authentication by default.
	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	return &Client{
		proxyAddress: proxyAddress,
		dialer:       dialer,
		timeout:      timeout,
	}, nil
}

// isValidProxyAddress reports whether address is a "host:port" pair with a
// non-empty host and a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// ProxyAddress returns the configured proxy address.
func (c *Client) ProxyAddress() string {
	return c.proxyAddress
}

// Dialer returns the underlying SOCKS5 dialer.
func (c *Client) Dialer() proxy.Dialer {
	return c.dialer
}

// NewHTTPClient creates an HTTP client whose connections all go through Tor.
// The userAgent is set on every request the client sends, redirects included.
func (c *Client) NewHTTPClient(userAgent string) *http.Client {
	transport := &http.Transport{
		DialContext: c.dialContext,
		// Each connection holds a Tor circuit, so keep the idle pool small.
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		// Compressed sizes leak information about the plaintext (CRIME/BREACH).
		DisableCompression: true,
	}

	return newHTTPClient(transport, userAgent, c.timeout)
}

// NewDirectHTTPClient creates an HTTP client that does not use any proxy.
// It is used when Tor is disabled in the configuration.
func NewDirectHTTPClient(userAgent string, timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: nil,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	return newHTTPClient(transport, userAgent, timeout)
}

// newHTTPClient wraps base with the User-Agent injector and the redirect limit.
func newHTTPClient(base http.RoundTripper, userAgent string, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &userAgentTransport{base: base, userAgent: userAgent},
		Timeout:   timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// dialContext dials through the SOCKS5 proxy while honouring ctx.
// x/net/proxy dialers implement proxy.ContextDialer; the fallback goroutine
// covers dialers that do not, at the cost of a dial that may outlive ctx.
func (c *Client) dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := c.dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, addr)
	}

	type dialResult struct {
		conn net.Conn
		err  error
	}
	resultCh := make(chan dialResult, 1)
	go func() {
		conn, err := c.dialer.Dial(network, addr)
		resultCh <- dialResult{conn, err}
	}()

	select {
	case result := <-resultCh:
		return result.conn, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// userAgentTransport sets a fixed User-Agent header on every request.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

// RoundTrip implements http.RoundTripper.
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(clone)
}

// SOCKS5 protocol constants used by CheckConnection.
const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5CmdConnect   = 0x01
	socks5AddrTypeFQDN = 0x03

	// socks5ProbeHost is a non-existent onion address. The probe only needs
	// the proxy to answer the CONNECT request, not to reach anything.
	socks5ProbeHost = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa.onion"
	socks5ProbePort = 80
)

// CheckConnection probes the proxy with a SOCKS5 handshake followed by a
// CONNECT request for a dummy onion address. Any well-formed SOCKS5 reply,
// success or failure, means a SOCKS5 proxy that resolves names remotely is
// listening on the address.
func (c *Client) CheckConnection(ctx context.Context) ProxyStatus {
	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.proxyAddress)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	// Greeting: version, one method, "no authentication".
	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}
	reply := make([]byte, 2)
	if status, ok := readReply(conn, reply); !ok {
		return status
	}
	if reply[0] != socks5Version || reply[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}

	req := []byte{socks5Version, socks5CmdConnect, 0x00, socks5AddrTypeFQDN, byte(len(socks5ProbeHost))}
	req = append(req, socks5ProbeHost...)
	req = append(req, byte(socks5ProbePort>>8), byte(socks5ProbePort&0xFF))
	if _, err := conn.Write(req); err != nil {
		return ProxyStatusCannotConnect
	}

	// version, reply code, reserved, address type
	header := make([]byte, 4)
	if status, ok := readReply(conn, header); !ok {
		return status
	}
	if header[0] != socks5Version {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

// readReply fills buf from conn and maps read failures to a ProxyStatus.
func readReply(conn net.Conn, buf []byte) (ProxyStatus, bool) {
	if _, err := io.ReadFull(conn, buf); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ProxyStatusTimeout, false
		}
		return ProxyStatusWrongType, false
	}
	return ProxyStatusOK, true
}
