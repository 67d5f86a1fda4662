// Package scan runs a keyword scan and collects findings into a model.ScanResult.
//
// Discovery is a placeholder: the scanner sends one request to the target
// URL and records a single test finding when it gets an answer. Fetched
// content is not parsed.
package scan

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nao1215/darkmonitor/internal/config"
	"github.com/nao1215/darkmonitor/internal/fetch"
	"github.com/nao1215/darkmonitor/internal/model"
)

// PlaceholderFinding is recorded when the target answered.
const PlaceholderFinding = "Test result"

// Fetcher sends a request with retries. *fetch.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, method, rawURL string, opts ...fetch.RequestOption) fetch.Result
}

// Scanner produces a ScanResult for a keyword.
type Scanner struct {
	fetcher   Fetcher
	targetURL string
	logger    *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithTargetURL sets the URL requested by Scan.
func WithTargetURL(u string) Option {
	return func(s *Scanner) {
		s.targetURL = u
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a Scanner using fetcher for network access.
func NewScanner(fetcher Fetcher, opts ...Option) *Scanner {
	s := &Scanner{
		fetcher:   fetcher,
		targetURL: config.DefaultTargetURL,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scan creates the default categories, requests the target URL once
// (with retries) and adds PlaceholderFinding to the forums category when a
// response came back. A failed request leaves every category empty.
func (s *Scanner) Scan(ctx context.Context, keyword string) *model.ScanResult {
	result := model.NewScanResult(model.DefaultCategories()...)

	s.logger.Info("starting scan", "keyword", keyword, "target", s.targetURL)

	res := s.fetcher.Fetch(ctx, http.MethodGet, s.targetURL)
	if !res.Found() {
		s.logger.Warn("target did not respond", "target", s.targetURL, "attempts", res.Attempts)
		return result
	}

	s.logger.Debug("target responded",
		"target", s.targetURL, "status", res.Response.StatusCode, "attempts", res.Attempts)
	result.Add(model.CategoryForums, PlaceholderFinding)

	return result
}
