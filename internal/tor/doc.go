// Package tor provides Tor network connectivity for darkmonitor.
//
// It covers three concerns:
//   - routing HTTP through the local SOCKS5 proxy (Client)
//   - checking that traffic actually leaves through Tor (Verify)
//   - requesting a new exit identity over the control port (IdentityRotator)
//
// Session ties them together for a single run. All proxy configuration is
// carried by explicit *http.Client values; no global dialer or socket
// factory is replaced, so direct and proxied clients can coexist.
//
// SOCKS5 dialing uses golang.org/x/net/proxy. The control port protocol
// (AUTHENTICATE, SIGNAL NEWNYM) is handled by github.com/nao1215/tornago.
package tor
