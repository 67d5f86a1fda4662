package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nao1215/darkmonitor/internal/tor"
)

const (
	defaultMaxRetries  = 3
	defaultTimeout     = 30 * time.Second
	defaultMaxBodySize = 5 * 1024 * 1024
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Renewer requests a new exit identity before a retry.
// *tor.Session satisfies it.
type Renewer interface {
	RenewIdentity(ctx context.Context)
}

// Client sends requests with retries and identity rotation.
type Client struct {
	doer        Doer
	renewer     Renewer
	maxRetries  int
	timeout     time.Duration
	delay       time.Duration
	maxBodySize int64
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMaxRetries sets the total number of attempts.
// Zero or a negative value means no request is sent at all.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRequestDelay sets the wait between a failed attempt and the next one.
func WithRequestDelay(d time.Duration) Option {
	return func(c *Client) {
		c.delay = d
	}
}

// WithMaxBodySize limits how many bytes of a response body are kept.
// Zero disables the limit.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// withSleep replaces the sleep function. Tests only.
func withSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// New creates a Client. A nil renewer disables identity rotation.
func New(doer Doer, renewer Renewer, opts ...Option) *Client {
	c := &Client{
		doer:        doer,
		renewer:     renewer,
		maxRetries:  defaultMaxRetries,
		timeout:     defaultTimeout,
		maxBodySize: defaultMaxBodySize,
		sleep:       tor.Sleep,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// request holds per-call settings collected from RequestOptions.
type request struct {
	query       url.Values
	header      http.Header
	body        []byte
	contentType string
}

// RequestOption customizes a single Fetch call.
type RequestOption func(*request)

// WithQuery merges values into the URL query string.
func WithQuery(values url.Values) RequestOption {
	return func(r *request) {
		r.query = values
	}
}

// WithHeader sets a request header. User-Agent is controlled by the
// transport and cannot be overridden here.
func WithHeader(key, value string) RequestOption {
	return func(r *request) {
		r.header.Set(key, value)
	}
}

// WithBody sets the request body, which is resent on every attempt.
func WithBody(body []byte, contentType string) RequestOption {
	return func(r *request) {
		r.body = body
		r.contentType = contentType
	}
}

// Fetch sends the request until it succeeds or the attempt budget is spent.
//
// An attempt succeeds when the transport returns a response with a status
// below 400. After a failed attempt with budget left, the client renews the
// identity, waits for the request delay and tries again. Cancelling ctx
// stops the loop. Fetch never panics and never returns an error; an absent
// response is reported through Result.Found.
func (c *Client) Fetch(ctx context.Context, method, rawURL string, opts ...RequestOption) Result {
	req := &request{header: make(http.Header)}
	for _, opt := range opts {
		opt(req)
	}

	target, err := buildURL(rawURL, req.query)
	if err != nil {
		c.logger.Error("request failed", "url", rawURL, "error", err)
		return Result{Err: err}
	}

	result := Result{Err: ErrNoAttempts}
	remaining := c.maxRetries
	for remaining > 0 {
		result.Attempts++
		resp, err := c.attempt(ctx, method, target, req)
		if err == nil {
			result.Response = resp
			result.Err = nil
			return result
		}
		result.Err = err

		remaining--
		if remaining == 0 {
			c.logger.Error("request failed", "url", target, "attempts", result.Attempts, "error", err)
			return result
		}
		if ctx.Err() != nil {
			c.logger.Debug("request cancelled", "url", target, "error", ctx.Err())
			return result
		}

		c.logger.Warn("request failed, retrying",
			"url", target, "attemptsLeft", remaining, "error", err)
		if c.renewer != nil {
			c.renewer.RenewIdentity(ctx)
		}
		if err := c.sleep(ctx, c.delay); err != nil {
			c.logger.Debug("retry wait interrupted", "url", target, "error", err)
			return result
		}
	}

	return result
}

// attempt performs one request and reads the body.
func (c *Client) attempt(ctx context.Context, method, target string, r *request) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	for key, values := range r.header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}

	resp, err := c.doer.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	var reader io.Reader = resp.Body
	if c.maxBodySize > 0 {
		reader = io.LimitReader(resp.Body, c.maxBodySize)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	finalURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		URL:        finalURL,
	}, nil
}

// buildURL appends query to rawURL.
func buildURL(rawURL string, query url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if len(query) == 0 {
		return u.String(), nil
	}

	q := u.Query()
	for key, values := range query {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
