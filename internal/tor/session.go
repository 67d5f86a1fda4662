package tor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nao1215/darkmonitor/internal/config"
)

// Renewer requests a new exit identity. Implementations never fail the
// caller: problems are logged and the current route stays in use.
type Renewer interface {
	RenewIdentity(ctx context.Context)
}

// noopRenewer is used when Tor is disabled and there is no identity to renew.
type noopRenewer struct{}

// RenewIdentity implements Renewer.
func (noopRenewer) RenewIdentity(context.Context) {}

// Session is the network state of one process run: the HTTP client every
// request goes through, whether the route was verified, and the identity
// rotator. It is built once at startup and never persisted.
type Session struct {
	httpClient *http.Client
	renewer    Renewer
	proxied    bool
	verified   bool
	exitIP     string
}

// SessionOption configures NewSession.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	logger      *slog.Logger
	rotatorOpts []IdentityRotatorOption
}

// WithSessionLogger sets the logger used by the session and its rotator.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// WithSessionRotatorOptions passes extra options to the identity rotator.
func WithSessionRotatorOptions(opts ...IdentityRotatorOption) SessionOption {
	return func(o *sessionOptions) {
		o.rotatorOpts = append(o.rotatorOpts, opts...)
	}
}

// NewSession sets up outbound networking according to cfg.
//
// With Tor disabled it returns a direct HTTP client and skips verification.
// With Tor enabled it creates a SOCKS5 client, probes the local proxy and
// asks the verification endpoint whether traffic is anonymized. Every
// failure on that path wraps ErrProxySetup and must be treated as fatal.
func NewSession(ctx context.Context, cfg *config.Config, opts ...SessionOption) (*Session, error) {
	o := &sessionOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	if !cfg.Tor.Enabled {
		o.logger.Warn("Tor is disabled; requests use direct connections")
		return &Session{
			httpClient: NewDirectHTTPClient(cfg.Network.UserAgent, cfg.Network.Timeout),
			renewer:    noopRenewer{},
		}, nil
	}

	client, err := NewClient(cfg.Tor.ProxyAddress(), cfg.Network.Timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProxySetup, err)
	}

	if status := client.CheckConnection(ctx); status != ProxyStatusOK {
		return nil, fmt.Errorf("%w: %w (make sure Tor is running at %s)",
			ErrProxySetup, status.Error(), client.ProxyAddress())
	}
	o.logger.Debug("SOCKS5 proxy reachable", "address", client.ProxyAddress())

	httpClient := client.NewHTTPClient(cfg.Network.UserAgent)

	result, err := Verify(ctx, httpClient, cfg.Tor.CheckURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProxySetup, err)
	}
	o.logger.Info("successfully connected to Tor network", "exitIP", result.IP)

	rotatorOpts := []IdentityRotatorOption{
		WithControlPassword(cfg.Tor.ControlPassword),
		WithControlCookie(cfg.Tor.ControlCookie),
		WithRotationDelay(cfg.Safety.RequestDelay),
		WithRotatorLogger(o.logger),
	}
	rotatorOpts = append(rotatorOpts, o.rotatorOpts...)

	return &Session{
		httpClient: httpClient,
		renewer:    NewIdentityRotator(cfg.Tor.ControlAddress(), rotatorOpts...),
		proxied:    true,
		verified:   true,
		exitIP:     result.IP,
	}, nil
}

// HTTPClient returns the client all requests of this session must use.
func (s *Session) HTTPClient() *http.Client {
	return s.httpClient
}

// Proxied reports whether traffic is routed through Tor.
func (s *Session) Proxied() bool {
	return s.proxied
}

// Verified reports whether the verification endpoint confirmed Tor.
func (s *Session) Verified() bool {
	return s.verified
}

// ExitIP returns the exit address reported during verification.
func (s *Session) ExitIP() string {
	return s.exitIP
}

// RenewIdentity implements Renewer.
func (s *Session) RenewIdentity(ctx context.Context) {
	s.renewer.RenewIdentity(ctx)
}
