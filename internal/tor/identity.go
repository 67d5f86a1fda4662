package tor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/tornago"
)

// defaultControlTimeout bounds each control port exchange.
const defaultControlTimeout = 10 * time.Second

// Controller is the subset of a Tor control port connection used to
// request a new identity. *tornago.ControlClient satisfies it.
type Controller interface {
	Authenticate() error
	NewIdentity(ctx context.Context) error
	Close() error
}

// ControllerDialer opens an unauthenticated control port connection.
type ControllerDialer func(addr string, auth tornago.ControlAuth, timeout time.Duration) (Controller, error)

// dialTornago opens a control connection with tornago.
func dialTornago(addr string, auth tornago.ControlAuth, timeout time.Duration) (Controller, error) {
	ctrl, err := tornago.NewControlClient(addr, auth, timeout)
	if err != nil {
		return nil, err
	}
	return ctrl, nil
}

// IdentityRotator asks the Tor daemon for a new circuit (SIGNAL NEWNYM),
// which changes the exit relay and therefore the apparent origin of
// subsequent requests.
type IdentityRotator struct {
	controlAddr string
	password    string
	cookiePath  string
	delay       time.Duration
	timeout     time.Duration
	dial        ControllerDialer
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *slog.Logger
}

// IdentityRotatorOption configures an IdentityRotator.
type IdentityRotatorOption func(*IdentityRotator)

// WithControlPassword authenticates with HashedControlPassword.
func WithControlPassword(password string) IdentityRotatorOption {
	return func(r *IdentityRotator) {
		r.password = password
	}
}

// WithControlCookie authenticates with the control_auth_cookie file at path.
// A password set with WithControlPassword takes precedence.
func WithControlCookie(path string) IdentityRotatorOption {
	return func(r *IdentityRotator) {
		r.cookiePath = path
	}
}

// WithRotationDelay sets the time slept after NEWNYM was sent.
func WithRotationDelay(d time.Duration) IdentityRotatorOption {
	return func(r *IdentityRotator) {
		r.delay = d
	}
}

// WithControllerDialer replaces the control port dialer.
func WithControllerDialer(dial ControllerDialer) IdentityRotatorOption {
	return func(r *IdentityRotator) {
		r.dial = dial
	}
}

// WithRotatorLogger sets the logger.
func WithRotatorLogger(logger *slog.Logger) IdentityRotatorOption {
	return func(r *IdentityRotator) {
		r.logger = logger
	}
}

// withRotatorSleep replaces the sleep function. Tests only.
func withRotatorSleep(sleep func(ctx context.Context, d time.Duration) error) IdentityRotatorOption {
	return func(r *IdentityRotator) {
		r.sleep = sleep
	}
}

// NewIdentityRotator creates a rotator for the control port at controlAddr.
func NewIdentityRotator(controlAddr string, opts ...IdentityRotatorOption) *IdentityRotator {
	r := &IdentityRotator{
		controlAddr: controlAddr,
		timeout:     defaultControlTimeout,
		dial:        dialTornago,
		sleep:       Sleep,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RenewIdentity connects to the control port, authenticates, sends NEWNYM
// and then sleeps for the configured delay so the new circuit can be built.
//
// Failures are logged and swallowed; the caller keeps using whatever
// route is currently active.
func (r *IdentityRotator) RenewIdentity(ctx context.Context) {
	if err := r.newIdentity(ctx); err != nil {
		r.logger.Error("failed to renew Tor identity", "controlAddr", r.controlAddr, "error", err)
		return
	}

	if err := r.sleep(ctx, r.delay); err != nil {
		r.logger.Debug("identity rotation wait interrupted", "error", err)
		return
	}
	r.logger.Info("Tor identity renewed", "controlAddr", r.controlAddr)
}

// newIdentity performs the control port exchange.
func (r *IdentityRotator) newIdentity(ctx context.Context) error {
	ctrl, err := r.dial(r.controlAddr, r.controlAuth(), r.timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to control port: %w", err)
	}
	defer ctrl.Close()

	if err := ctrl.Authenticate(); err != nil {
		return fmt.Errorf("failed to authenticate to control port: %w", err)
	}

	if err := ctrl.NewIdentity(ctx); err != nil {
		return fmt.Errorf("failed to send NEWNYM: %w", err)
	}
	return nil
}

// controlAuth picks the control port credentials.
// Without a password or cookie, authentication is attempted with none,
// which works when torrc enables neither.
func (r *IdentityRotator) controlAuth() tornago.ControlAuth {
	switch {
	case r.password != "":
		return tornago.ControlAuthFromPassword(r.password)
	case r.cookiePath != "":
		return tornago.ControlAuthFromCookie(r.cookiePath)
	default:
		var auth tornago.ControlAuth
		return auth
	}
}

// Sleep waits for d or until ctx is done, whichever comes first.
// A non-positive d returns immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
