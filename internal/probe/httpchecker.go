package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

type HTTPChecker struct {
	Client *http.Client
	// Resolver classifies the host when the request fails in transport.
	// nil skips the DNS diagnosis.
	Resolver *net.Resolver
}

// NewHTTPChecker returns a checker sharing one client across probes.
// A zero timeout leaves the deadline to the request context.
func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{
		Client:   &http.Client{Timeout: timeout},
		Resolver: net.DefaultResolver,
	}
}

// Check issues a GET and succeeds iff the response code equals want
// (200 when want is 0).
func (h *HTTPChecker) Check(ctx context.Context, target string, want int) error {
	if want == 0 {
		want = http.StatusOK
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "heartbeat/1")

	resp, err := h.Client.Do(req)
	if err != nil {
		return h.diagnose(ctx, req.URL.Hostname(), err)
	}
	defer resp.Body.Close()
	// drain a bounded amount so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != want {
		return fmt.Errorf("expected status %d, got %d", want, resp.StatusCode)
	}
	return nil
}

// diagnose appends the DNS class of host to a transport error when the name
// does not resolve cleanly.
func (h *HTTPChecker) diagnose(ctx context.Context, host string, err error) error {
	if h.Resolver == nil || host == "" || net.ParseIP(host) != nil || ctx.Err() != nil {
		return err
	}
	st := ResolveDNS(ctx, h.Resolver, host)
	if st.Class == DNSResolves {
		return err
	}
	return fmt.Errorf("%w (dns: %s)", err, st.Class)
}
