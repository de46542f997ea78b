package probe

import (
	"context"
	"fmt"
	"net"
	"net/url"
)

// DNSChecker succeeds when the host resolves to at least one address.
type DNSChecker struct {
	Resolver *net.Resolver
}

func NewDNSChecker() *DNSChecker {
	return &DNSChecker{Resolver: net.DefaultResolver}
}

func (d *DNSChecker) Check(ctx context.Context, host string) error {
	st := ResolveDNS(ctx, d.Resolver, extractHost(host))
	if st.Class == DNSResolves {
		return nil
	}
	if st.ResolverError != "" {
		return fmt.Errorf("%s: %s", st.Class, st.ResolverError)
	}
	return fmt.Errorf("%s", st.Class)
}

// extractHost accepts either a bare name or a URL.
func extractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
