package domain

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

type KindType string

const (
	KindHTTP     KindType = "http"
	KindTCP      KindType = "tcp"
	KindPing     KindType = "ping"
	KindDNS      KindType = "dns"
	KindPostgres KindType = "postgres"
	KindGRPC     KindType = "grpc"
)

// Kind is the probe variant of a check together with its parameters.
// Only the fields that belong to Type are meaningful.
type Kind struct {
	Type KindType

	URL    string // http
	Status int    // http: expected status code, 0 means 200

	Host string // tcp, ping, dns
	Port int    // tcp

	DSN string // postgres

	Address string // grpc
	Service string // grpc: health service name, empty for the server as a whole
}

// Target is a human readable description of what the kind probes.
// Credentials in a postgres DSN are redacted.
func (k Kind) Target() string {
	switch k.Type {
	case KindHTTP:
		return k.URL
	case KindTCP:
		return net.JoinHostPort(k.Host, strconv.Itoa(k.Port))
	case KindPing, KindDNS:
		return k.Host
	case KindPostgres:
		if u, err := url.Parse(k.DSN); err == nil && u.Host != "" {
			return u.Redacted()
		}
		return "postgres"
	case KindGRPC:
		if k.Service != "" {
			return k.Address + "/" + k.Service
		}
		return k.Address
	}
	return ""
}

// Check is a named monitoring target with its schedule and runtime state.
type Check struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration // 0 uses the process-wide probe timeout
	Kind     Kind

	LastRun    time.Time // zero until first dispatch
	LastStatus *Status   // nil until first completion
}

// Due reports whether the check should be dispatched at now.
func (c Check) Due(now time.Time) bool {
	return c.LastRun.IsZero() || now.Sub(c.LastRun) >= c.Interval
}

// NextDue is the earliest time the check becomes due again. A check that
// never ran is due immediately and returns the zero time.
func (c Check) NextDue() time.Time {
	if c.LastRun.IsZero() {
		return time.Time{}
	}
	return c.LastRun.Add(c.Interval)
}
