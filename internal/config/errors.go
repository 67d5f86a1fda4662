package config

import "errors"

// Configuration errors.
// Every error returned by Load wraps one of these sentinels, so callers can
// use errors.Is() while the message still names the offending file or key.
var (
	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrMissingKey is returned when a required key is absent or null.
	// The dotted key name (e.g. "tor.port") is appended to the message.
	ErrMissingKey = errors.New("missing required configuration key")

	// ErrInvalidPort is returned when tor.port is outside 1..65535.
	ErrInvalidPort = errors.New("invalid tor.port: must be between 1 and 65535")

	// ErrInvalidControlPort is returned when tor.control_port is outside 1..65535.
	ErrInvalidControlPort = errors.New("invalid tor.control_port: must be between 1 and 65535")

	// ErrEmptyTorHost is returned when tor.host is set to an empty string.
	ErrEmptyTorHost = errors.New("invalid tor.host: must not be empty")

	// ErrEmptyUserAgent is returned when network.user_agent is empty.
	ErrEmptyUserAgent = errors.New("invalid network.user_agent: must not be empty")

	// ErrInvalidTimeout is returned when network.timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid network.timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when network.max_body_size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid network.max_body_size: must be non-negative")

	// ErrInvalidRequestDelay is returned when safety.request_delay is negative.
	ErrInvalidRequestDelay = errors.New("invalid safety.request_delay: must be non-negative")
)
