package tor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxCheckResponseSize bounds the verification response; the real
// endpoint answers with a few dozen bytes of JSON.
const maxCheckResponseSize = 64 * 1024

// CheckResult is the answer of the verification endpoint.
// The field names follow https://check.torproject.org/api/ip.
type CheckResult struct {
	// IsTor reports whether the request arrived from a Tor exit relay.
	IsTor bool `json:"IsTor"`

	// IP is the address the endpoint saw the request come from.
	IP string `json:"IP"`
}

// Verify asks the verification endpoint at checkURL whether requests sent
// by client appear to come from the Tor network.
//
// It returns ErrNotAnonymized (alongside the decoded result) when the
// endpoint answered but did not confirm Tor, and wraps ErrVerificationFailed
// for transport, status and decoding problems.
//
// The answer only describes the route at the time of the call; a later
// request may use a different circuit. The endpoint is treated as a
// best-effort signal, not a security boundary.
func Verify(ctx context.Context, client *http.Client, checkURL string) (*CheckResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrVerificationFailed, resp.StatusCode)
	}

	var result CheckResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCheckResponseSize)).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: invalid response: %w", ErrVerificationFailed, err)
	}

	if !result.IsTor {
		return &result, ErrNotAnonymized
	}
	return &result, nil
}
