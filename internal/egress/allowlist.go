// Package egress limits where the engine's HTTP traffic may go.
package egress

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

var ErrBlocked = errors.New("egress blocked by allowlist")

// DocsHosts are the endpoints the document service and its token exchange
// live on.
var DocsHosts = []string{
	"docs.googleapis.com",
	"oauth2.googleapis.com",
	"www.googleapis.com",
}

// AllowlistRoundTripper enforces HTTPS-only requests to a fixed host allowlist.
type AllowlistRoundTripper struct {
	Base      http.RoundTripper
	Allowlist map[string]bool
}

// NewAllowlistRoundTripper returns a RoundTripper that enforces a host allowlist.
func NewAllowlistRoundTripper(base http.RoundTripper, hosts []string) *AllowlistRoundTripper {
	allowlist := make(map[string]bool, len(hosts))
	for _, host := range hosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			allowlist[host] = true
		}
	}
	return &AllowlistRoundTripper{Base: base, Allowlist: allowlist}
}

// Client wraps http.DefaultTransport in an allowlist for hosts.
func Client(hosts ...string) *http.Client {
	return &http.Client{Transport: NewAllowlistRoundTripper(http.DefaultTransport, hosts)}
}

func (rt *AllowlistRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := rt.check(req); err != nil {
		return nil, err
	}
	base := rt.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

func (rt *AllowlistRoundTripper) check(req *http.Request) error {
	if req.URL == nil {
		return fmt.Errorf("%w: request without URL", ErrBlocked)
	}
	if req.URL.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrBlocked, req.URL.Scheme)
	}
	host := req.URL.Hostname()
	if host == "" || net.ParseIP(host) != nil {
		return fmt.Errorf("%w: host %q", ErrBlocked, host)
	}
	if !rt.Allowlist[strings.ToLower(host)] {
		return fmt.Errorf("%w: host %q", ErrBlocked, host)
	}
	return nil
}
