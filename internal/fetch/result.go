package fetch

import (
	"net/http"
)

// Response is a fully read HTTP response.
// The body has already been closed; Body holds at most the configured
// maximum body size.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

// Result is the outcome of Fetch.
// Response is nil when every attempt failed. Err holds the last failure
// and is informational only.
type Result struct {
	Response *Response
	Attempts int
	Err      error
}

// Found reports whether a successful response was received.
func (r Result) Found() bool {
	return r.Response != nil
}
