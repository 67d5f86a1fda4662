package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validYAML is a complete configuration file used as a baseline by the tests.
const validYAML = `
tor:
  enabled: true
  port: 9050
  control_port: 9051
network:
  user_agent: "Mozilla/5.0 (Windows NT 10.0; rv:128.0) Gecko/20100101 Firefox/128.0"
  max_retries: 3
  timeout: 30
safety:
  request_delay: 2.5
`

// writeConfig writes content to a config.yml inside a fresh temp directory.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestLoad tests loading a complete configuration file.
func TestLoad(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("tor section", func(t *testing.T) {
		t.Parallel()
		if !cfg.Tor.Enabled {
			t.Error("expected tor.enabled to be true")
		}
		if cfg.Tor.Port != 9050 {
			t.Errorf("expected port 9050, got %d", cfg.Tor.Port)
		}
		if cfg.Tor.ControlPort != 9051 {
			t.Errorf("expected control port 9051, got %d", cfg.Tor.ControlPort)
		}
		if cfg.Tor.ProxyAddress() != "127.0.0.1:9050" {
			t.Errorf("ProxyAddress() = %q", cfg.Tor.ProxyAddress())
		}
		if cfg.Tor.ControlAddress() != "127.0.0.1:9051" {
			t.Errorf("ControlAddress() = %q", cfg.Tor.ControlAddress())
		}
	})

	t.Run("network section", func(t *testing.T) {
		t.Parallel()
		if !strings.HasPrefix(cfg.Network.UserAgent, "Mozilla/5.0") {
			t.Errorf("unexpected user agent %q", cfg.Network.UserAgent)
		}
		if cfg.Network.MaxRetries != 3 {
			t.Errorf("expected max retries 3, got %d", cfg.Network.MaxRetries)
		}
		if cfg.Network.Timeout != 30*time.Second {
			t.Errorf("expected timeout 30s, got %v", cfg.Network.Timeout)
		}
	})

	t.Run("fractional seconds are kept", func(t *testing.T) {
		t.Parallel()
		if cfg.Safety.RequestDelay != 2500*time.Millisecond {
			t.Errorf("expected request delay 2.5s, got %v", cfg.Safety.RequestDelay)
		}
	})

	t.Run("optional keys use defaults", func(t *testing.T) {
		t.Parallel()
		if cfg.Tor.Host != DefaultTorHost {
			t.Errorf("expected host %q, got %q", DefaultTorHost, cfg.Tor.Host)
		}
		if cfg.Tor.CheckURL != DefaultCheckURL {
			t.Errorf("expected check URL %q, got %q", DefaultCheckURL, cfg.Tor.CheckURL)
		}
		if cfg.Scan.TargetURL != DefaultTargetURL {
			t.Errorf("expected target URL %q, got %q", DefaultTargetURL, cfg.Scan.TargetURL)
		}
		if cfg.Network.MaxBodySize != DefaultMaxBodySize {
			t.Errorf("expected max body size %d, got %d", DefaultMaxBodySize, cfg.Network.MaxBodySize)
		}
	})
}

// TestLoadOptionalKeys tests that optional keys override defaults.
func TestLoadOptionalKeys(t *testing.T) {
	t.Parallel()

	content := `
tor:
  enabled: false
  host: tor.internal
  port: 9150
  control_port: 9151
  control_password: hunter2
  control_cookie: /var/run/tor/control.authcookie
  check_url: http://check.internal/api/ip
network:
  user_agent: test-agent
  max_retries: 0
  timeout: 1
  max_body_size: 1024
safety:
  request_delay: 0
scan:
  target_url: http://target.onion
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Tor.Enabled {
		t.Error("expected tor.enabled to be false")
	}
	if cfg.Tor.ProxyAddress() != "tor.internal:9150" {
		t.Errorf("ProxyAddress() = %q", cfg.Tor.ProxyAddress())
	}
	if cfg.Tor.ControlPassword != "hunter2" {
		t.Errorf("unexpected control password %q", cfg.Tor.ControlPassword)
	}
	if cfg.Tor.ControlCookie != "/var/run/tor/control.authcookie" {
		t.Errorf("unexpected control cookie %q", cfg.Tor.ControlCookie)
	}
	if cfg.Tor.CheckURL != "http://check.internal/api/ip" {
		t.Errorf("unexpected check URL %q", cfg.Tor.CheckURL)
	}
	if cfg.Network.MaxRetries != 0 {
		t.Errorf("expected max retries 0, got %d", cfg.Network.MaxRetries)
	}
	if cfg.Network.MaxBodySize != 1024 {
		t.Errorf("expected max body size 1024, got %d", cfg.Network.MaxBodySize)
	}
	if cfg.Safety.RequestDelay != 0 {
		t.Errorf("expected zero request delay, got %v", cfg.Safety.RequestDelay)
	}
	if cfg.Scan.TargetURL != "http://target.onion" {
		t.Errorf("unexpected target URL %q", cfg.Scan.TargetURL)
	}
}

// TestLoadMissingKeys tests that every required key is enforced.
func TestLoadMissingKeys(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		key  string
		drop string
	}{
		{"tor.enabled", "  enabled: true\n"},
		{"tor.port", "  port: 9050\n"},
		{"tor.control_port", "  control_port: 9051\n"},
		{"network.user_agent", "  user_agent: \"Mozilla/5.0 (Windows NT 10.0; rv:128.0) Gecko/20100101 Firefox/128.0\"\n"},
		{"network.max_retries", "  max_retries: 3\n"},
		{"network.timeout", "  timeout: 30\n"},
		{"safety.request_delay", "  request_delay: 2.5\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			t.Parallel()

			content := strings.Replace(validYAML, tc.drop, "", 1)
			if content == validYAML {
				t.Fatalf("test case did not remove %s", tc.key)
			}

			cfg, err := Load(writeConfig(t, content))
			if !errors.Is(err, ErrMissingKey) {
				t.Fatalf("expected ErrMissingKey, got %v", err)
			}
			if cfg != nil {
				t.Error("expected nil config on error")
			}
			if !strings.Contains(err.Error(), tc.key) {
				t.Errorf("expected error to name %s, got %q", tc.key, err.Error())
			}
		})
	}

	t.Run("null value counts as missing", func(t *testing.T) {
		t.Parallel()

		content := strings.Replace(validYAML, "port: 9050", "port:", 1)
		_, err := Load(writeConfig(t, content))
		if !errors.Is(err, ErrMissingKey) {
			t.Fatalf("expected ErrMissingKey, got %v", err)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(writeConfig(t, ""))
		if !errors.Is(err, ErrMissingKey) {
			t.Fatalf("expected ErrMissingKey, got %v", err)
		}
	})
}

// TestLoadErrors tests read and parse failures.
func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("malformed YAML", func(t *testing.T) {
		t.Parallel()

		_, err := Load(writeConfig(t, "tor: [unclosed"))
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if errors.Is(err, ErrMissingKey) {
			t.Error("expected a parse error, not a missing key error")
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		t.Parallel()

		content := strings.Replace(validYAML, "port: 9050", "port: ninety", 1)
		if _, err := Load(writeConfig(t, content)); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// TestConfigValidate tests the value range checks.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		return &Config{
			Tor: TorConfig{
				Enabled:     true,
				Host:        DefaultTorHost,
				Port:        9050,
				ControlPort: 9051,
			},
			Network: NetworkConfig{
				UserAgent:   "test-agent",
				MaxRetries:  3,
				Timeout:     30 * time.Second,
				MaxBodySize: DefaultMaxBodySize,
			},
			Safety: SafetyConfig{RequestDelay: time.Second},
		}
	}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid config", func(*Config) {}, nil},
		{"negative max retries is allowed", func(c *Config) { c.Network.MaxRetries = -1 }, nil},
		{"zero request delay is allowed", func(c *Config) { c.Safety.RequestDelay = 0 }, nil},
		{"port zero", func(c *Config) { c.Tor.Port = 0 }, ErrInvalidPort},
		{"port too large", func(c *Config) { c.Tor.Port = 70000 }, ErrInvalidPort},
		{"control port zero", func(c *Config) { c.Tor.ControlPort = 0 }, ErrInvalidControlPort},
		{"empty host", func(c *Config) { c.Tor.Host = "" }, ErrEmptyTorHost},
		{"empty user agent", func(c *Config) { c.Network.UserAgent = "" }, ErrEmptyUserAgent},
		{"zero timeout", func(c *Config) { c.Network.Timeout = 0 }, ErrInvalidTimeout},
		{"negative body size", func(c *Config) { c.Network.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
		{"negative request delay", func(c *Config) { c.Safety.RequestDelay = -time.Second }, ErrInvalidRequestDelay},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// TestFindConfigFile tests configuration file resolution.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("existing path is returned", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, validYAML)
		if got := FindConfigFile(path, true); got != path {
			t.Errorf("FindConfigFile() = %q, expected %q", got, path)
		}
		if got := FindConfigFile(path, false); got != path {
			t.Errorf("FindConfigFile() = %q, expected %q", got, path)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing.yml")
		if got := FindConfigFile(path, true); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

// TestXDGConfigDir tests the XDG config directory helper.
func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	dir := XDGConfigDir()
	if filepath.Base(dir) != AppName {
		t.Errorf("expected directory to end with %q, got %q", AppName, dir)
	}
}
