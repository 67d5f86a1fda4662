package tor

import "errors"

// Proxy session errors.
// ErrProxySetup wraps every failure of NewSession, so the CLI can tell a
// proxy setup failure apart from a configuration failure with errors.Is().
var (
	// ErrProxySetup is the umbrella error for proxy configuration or
	// verification failures. It is always fatal.
	ErrProxySetup = errors.New("proxy setup failed")

	// ErrProxyNotTor is returned when the proxy address answers but does
	// not speak SOCKS5 the way the Tor daemon does.
	ErrProxyNotTor = errors.New("proxy is not a Tor SOCKS5 proxy")

	// ErrProxyCannotConnect is returned when no TCP connection to the
	// proxy can be made. Usually Tor is not running.
	ErrProxyCannotConnect = errors.New("cannot connect to Tor proxy")

	// ErrProxyTimeout is returned when the proxy does not answer in time.
	ErrProxyTimeout = errors.New("timeout connecting to Tor proxy")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrNotAnonymized is returned when the verification endpoint reports
	// that the request did not arrive through Tor.
	ErrNotAnonymized = errors.New("verification endpoint reports traffic is not routed through Tor")

	// ErrVerificationFailed is returned when the verification endpoint
	// cannot be queried or returns something that is not a check result.
	ErrVerificationFailed = errors.New("tor verification request failed")
)

// ProxyStatus is the result of probing the local SOCKS5 proxy.
type ProxyStatus int

const (
	// ProxyStatusOK indicates a working SOCKS5 proxy.
	ProxyStatusOK ProxyStatus = iota

	// ProxyStatusWrongType indicates something other than a Tor SOCKS5 proxy answered.
	ProxyStatusWrongType

	// ProxyStatusCannotConnect indicates no connection could be established.
	ProxyStatusCannotConnect

	// ProxyStatusTimeout indicates the probe timed out.
	ProxyStatusTimeout
)

// String returns a human-readable description of the proxy status.
func (s ProxyStatus) String() string {
	switch s {
	case ProxyStatusOK:
		return "OK"
	case ProxyStatusWrongType:
		return "wrong type (not Tor)"
	case ProxyStatusCannotConnect:
		return "cannot connect"
	case ProxyStatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error returns the error for this status, or nil if OK.
func (s ProxyStatus) Error() error {
	switch s {
	case ProxyStatusOK:
		return nil
	case ProxyStatusWrongType:
		return ErrProxyNotTor
	case ProxyStatusCannotConnect:
		return ErrProxyCannotConnect
	case ProxyStatusTimeout:
		return ErrProxyTimeout
	default:
		return errors.New("unknown proxy status")
	}
}
