package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the layout of config.yml.
// Required keys are pointers so a missing key can be told apart from a zero value.
type fileConfig struct {
	Tor struct {
		Enabled         *bool  `yaml:"enabled"`
		Host            string `yaml:"host"`
		Port            *int   `yaml:"port"`
		ControlPort     *int   `yaml:"control_port"`
		ControlPassword string `yaml:"control_password"`
		ControlCookie   string `yaml:"control_cookie"`
		CheckURL        string `yaml:"check_url"`
	} `yaml:"tor"`

	Network struct {
		UserAgent   *string  `yaml:"user_agent"`
		MaxRetries  *int     `yaml:"max_retries"`
		Timeout     *float64 `yaml:"timeout"`
		MaxBodySize *int64   `yaml:"max_body_size"`
	} `yaml:"network"`

	Safety struct {
		RequestDelay *float64 `yaml:"request_delay"`
	} `yaml:"safety"`

	Scan struct {
		TargetURL string `yaml:"target_url"`
	} `yaml:"scan"`
}

// requiredKey pairs a dotted key name with a presence check.
type requiredKey struct {
	name    string
	present func(*fileConfig) bool
}

// requiredKeys lists the keys that must be present, in file order.
var requiredKeys = []requiredKey{
	{"tor.enabled", func(f *fileConfig) bool { return f.Tor.Enabled != nil }},
	{"tor.port", func(f *fileConfig) bool { return f.Tor.Port != nil }},
	{"tor.control_port", func(f *fileConfig) bool { return f.Tor.ControlPort != nil }},
	{"network.user_agent", func(f *fileConfig) bool { return f.Network.UserAgent != nil }},
	{"network.max_retries", func(f *fileConfig) bool { return f.Network.MaxRetries != nil }},
	{"network.timeout", func(f *fileConfig) bool { return f.Network.Timeout != nil }},
	{"safety.request_delay", func(f *fileConfig) bool { return f.Safety.RequestDelay != nil }},
}

// Load reads and validates the YAML configuration file at path.
// It never returns a partially populated Config: any read, parse,
// missing-key or validation problem yields a nil Config and an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes configuration data in YAML format.
func Parse(data []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	for _, key := range requiredKeys {
		if !key.present(&fc) {
			return nil, fmt.Errorf("%w: %s", ErrMissingKey, key.name)
		}
	}

	cfg := &Config{
		Tor: TorConfig{
			Enabled:         *fc.Tor.Enabled,
			Host:            DefaultTorHost,
			Port:            *fc.Tor.Port,
			ControlPort:     *fc.Tor.ControlPort,
			ControlPassword: fc.Tor.ControlPassword,
			ControlCookie:   fc.Tor.ControlCookie,
			CheckURL:        DefaultCheckURL,
		},
		Network: NetworkConfig{
			UserAgent:   *fc.Network.UserAgent,
			MaxRetries:  *fc.Network.MaxRetries,
			Timeout:     seconds(*fc.Network.Timeout),
			MaxBodySize: DefaultMaxBodySize,
		},
		Safety: SafetyConfig{
			RequestDelay: seconds(*fc.Safety.RequestDelay),
		},
		Scan: ScanConfig{
			TargetURL: DefaultTargetURL,
		},
	}

	if fc.Tor.Host != "" {
		cfg.Tor.Host = fc.Tor.Host
	}
	if fc.Tor.CheckURL != "" {
		cfg.Tor.CheckURL = fc.Tor.CheckURL
	}
	if fc.Network.MaxBodySize != nil {
		cfg.Network.MaxBodySize = *fc.Network.MaxBodySize
	}
	if fc.Scan.TargetURL != "" {
		cfg.Scan.TargetURL = fc.Scan.TargetURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// seconds converts a numeric seconds value from the file into a Duration.
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// FindConfigFile resolves the configuration file to load.
//
// When explicit is true (the user passed --config), only path is considered.
// Otherwise path is looked up as given (relative to the working directory)
// and then inside the XDG config directory.
//
// Returns the path to load, or an empty string if nothing was found.
func FindConfigFile(path string, explicit bool) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if explicit {
		return ""
	}

	xdgConfig := filepath.Join(XDGConfigDir(), filepath.Base(path))
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
