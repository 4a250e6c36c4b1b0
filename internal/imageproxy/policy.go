package imageproxy

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// Resolver returns the addresses of host.
type Resolver func(ctx context.Context, host string) ([]string, error)

// Policy decides whether an image URL may be fetched.
type Policy struct {
	// Resolve looks up hostnames. Nil uses net.DefaultResolver.
	Resolve Resolver
}

var blockedHosts = map[string]bool{
	"localhost":             true,
	"localhost.localdomain": true,
}

var metadataMarkers = []string{"metadata.google.internal", "metadata", "instance-data"}

// reservedPrefixes lists ranges not covered by netip.Addr predicates.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("64:ff9b:1::/48"),
	netip.MustParsePrefix("100::/64"),
	netip.MustParsePrefix("2001:db8::/32"),
}

// IsDataURI reports whether raw is an inline image data URI.
func IsDataURI(raw string) bool {
	return len(raw) >= len("data:image/") && strings.EqualFold(raw[:len("data:image/")], "data:image/")
}

// Validate parses raw and checks it against the policy. Data URIs are not
// accepted here; callers pass them through before validating.
func (p Policy) Validate(ctx context.Context, raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsafeScheme, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsafeScheme, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, ErrMissingHost
	}
	if blockedHosts[host] {
		return nil, fmt.Errorf("%w: %s", ErrUnsafeAddress, host)
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		if unsafeAddr(addr) {
			return nil, fmt.Errorf("%w: %s", ErrUnsafeAddress, host)
		}
		return u, nil
	}
	for _, marker := range metadataMarkers {
		if strings.Contains(host, marker) {
			return nil, fmt.Errorf("%w: %s", ErrMetadataHost, host)
		}
	}

	addrs, err := p.resolve(ctx, host)
	if err != nil {
		// Unresolvable hosts fail at fetch time.
		return u, nil
	}
	for _, a := range addrs {
		if addr, err := netip.ParseAddr(a); err == nil && unsafeAddr(addr) {
			return nil, fmt.Errorf("%w: %s resolves to %s", ErrUnsafeAddress, host, a)
		}
	}
	return u, nil
}

func (p Policy) resolve(ctx context.Context, host string) ([]string, error) {
	if p.Resolve != nil {
		return p.Resolve(ctx, host)
	}
	return net.DefaultResolver.LookupHost(ctx, host)
}

func unsafeAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() || addr.IsMulticast() {
		return true
	}
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
