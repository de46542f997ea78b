package probe

import (
	"context"
	"fmt"

	"github.com/hamed0406/heartbeat/internal/domain"
)

// Prober runs the network test for one check kind. A nil error means the
// target is up; otherwise the error text is the failure reason.
//
// Probers do not enforce their own deadline; the caller bounds ctx.
type Prober interface {
	Probe(ctx context.Context, k domain.Kind) error
}

// Set dispatches a kind to the checker implementing its type.
type Set struct {
	HTTP     *HTTPChecker
	TCP      *TCPChecker
	Ping     *PingChecker
	DNS      *DNSChecker
	Postgres *PostgresChecker
	GRPC     *GRPCChecker
}

func NewSet() *Set {
	return &Set{
		HTTP:     NewHTTPChecker(0),
		TCP:      NewTCPChecker(),
		Ping:     NewPingChecker(),
		DNS:      NewDNSChecker(),
		Postgres: NewPostgresChecker(),
		GRPC:     NewGRPCChecker(),
	}
}

func (s *Set) Probe(ctx context.Context, k domain.Kind) error {
	switch k.Type {
	case domain.KindHTTP:
		return s.HTTP.Check(ctx, k.URL, k.Status)
	case domain.KindTCP:
		return s.TCP.Check(ctx, k.Host, k.Port)
	case domain.KindPing:
		return s.Ping.Check(ctx, k.Host)
	case domain.KindDNS:
		return s.DNS.Check(ctx, k.Host)
	case domain.KindPostgres:
		return s.Postgres.Check(ctx, k.DSN)
	case domain.KindGRPC:
		return s.GRPC.Check(ctx, k.Address, k.Service)
	}
	return fmt.Errorf("unsupported check type %q", k.Type)
}
