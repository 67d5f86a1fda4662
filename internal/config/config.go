package config

import (
	"net"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Default values for the optional keys of config.yml.
// Required keys (see requiredKeys in loader.go) never fall back to a default.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "darkmonitor"

	// DefaultConfigFile is the conventional configuration file name,
	// looked up in the current working directory.
	DefaultConfigFile = "config.yml"

	// DefaultTorHost is the address of the local Tor daemon.
	// We use 127.0.0.1 instead of localhost to avoid DNS resolution
	// outside the proxy and IPv6 surprises on some systems.
	DefaultTorHost = "127.0.0.1"

	// DefaultCheckURL is the Tor Project endpoint that reports whether
	// the caller reached it through the Tor network.
	DefaultCheckURL = "https://check.torproject.org/api/ip"

	// DefaultTargetURL is the placeholder address requested by the scan.
	DefaultTargetURL = "http://example.onion"

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB
)

// Config holds the settings loaded from config.yml.
// It is loaded once at startup and treated as immutable afterwards;
// components receive it (or the parts they need) by dependency injection.
type Config struct {
	// Tor holds the local Tor daemon settings.
	Tor TorConfig

	// Network holds HTTP client and retry settings.
	Network NetworkConfig

	// Safety holds pacing settings.
	Safety SafetyConfig

	// Scan holds the placeholder scan settings.
	Scan ScanConfig
}

// TorConfig describes how to reach the local Tor daemon.
type TorConfig struct {
	// Enabled routes all traffic through the SOCKS5 proxy when true.
	// When false, requests use direct connections and no verification is done.
	Enabled bool

	// Host is the host of both the SOCKS and the control port.
	Host string

	// Port is the SOCKS5 port (9050 for the system daemon, 9150 for Tor Browser).
	Port int

	// ControlPort is the Tor control port used to request a new identity.
	ControlPort int

	// ControlPassword authenticates against the control port
	// (HashedControlPassword in torrc). Never logged.
	ControlPassword string

	// ControlCookie is the path of the control_auth_cookie file
	// (CookieAuthentication in torrc). Used when ControlPassword is empty.
	ControlCookie string

	// CheckURL is the verification endpoint queried after the proxy is configured.
	CheckURL string
}

// ProxyAddress returns the SOCKS5 proxy address in "host:port" format.
func (t TorConfig) ProxyAddress() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// ControlAddress returns the control port address in "host:port" format.
func (t TorConfig) ControlAddress() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.ControlPort))
}

// NetworkConfig holds HTTP settings.
type NetworkConfig struct {
	// UserAgent is sent with every request, including the verification request.
	UserAgent string

	// MaxRetries is the number of attempts made for a single request.
	// Zero or negative means no attempt is made at all.
	MaxRetries int

	// Timeout applies to each attempt individually, not to the whole run.
	Timeout time.Duration

	// MaxBodySize is the maximum number of response body bytes kept.
	MaxBodySize int64
}

// SafetyConfig holds pacing settings.
type SafetyConfig struct {
	// RequestDelay is slept after an identity rotation and again before the
	// next attempt, giving Tor time to build the new circuit.
	RequestDelay time.Duration
}

// ScanConfig holds placeholder scan settings.
type ScanConfig struct {
	// TargetURL is the single address requested by a scan.
	TargetURL string
}

// XDGConfigDir returns the XDG config directory for darkmonitor.
// On Linux: ~/.config/darkmonitor
// On macOS: ~/Library/Application Support/darkmonitor
// On Windows: %APPDATA%\darkmonitor
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks value ranges of a loaded configuration.
// Presence of required keys is checked by Load before Validate runs.
// It returns the first problem found.
func (c *Config) Validate() error {
	if !isValidPort(c.Tor.Port) {
		return ErrInvalidPort
	}
	if !isValidPort(c.Tor.ControlPort) {
		return ErrInvalidControlPort
	}
	if c.Tor.Host == "" {
		return ErrEmptyTorHost
	}
	if c.Network.UserAgent == "" {
		return ErrEmptyUserAgent
	}
	if c.Network.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Network.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Safety.RequestDelay < 0 {
		return ErrInvalidRequestDelay
	}
	return nil
}

func isValidPort(port int) bool {
	return port >= 1 && port <= 65535
}
