// Package log builds slog loggers that never print credentials.
//
// SecureHandler wraps any slog.Handler and masks:
//   - attributes whose key names a credential (control_password, cookie, token, ...)
//   - values shaped like one (Tor hashed passwords, cookie hex, bearer tokens)
//   - literal secrets registered at construction, wherever they appear
//
// Loggers log at Info by default and at Debug in verbose mode.
//
//	logger := log.New(os.Stderr, log.Options{
//		Verbose: verbose,
//		Secrets: []string{cfg.Tor.ControlPassword},
//	})
//	slog.SetDefault(logger)
package log
