package probe

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// GRPCChecker calls the standard grpc.health.v1 Check RPC and succeeds iff
// the server reports SERVING for the configured service.
type GRPCChecker struct {
	DialOptions []grpc.DialOption
}

func NewGRPCChecker() *GRPCChecker {
	return &GRPCChecker{
		DialOptions: []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())},
	}
}

func (g *GRPCChecker) Check(ctx context.Context, address, service string) error {
	conn, err := grpc.NewClient(address, g.DialOptions...)
	if err != nil {
		return err
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		if st, ok := status.FromError(err); ok {
			switch st.Code() {
			case codes.Unimplemented:
				return fmt.Errorf("%s does not implement the grpc health protocol", address)
			case codes.NotFound:
				return fmt.Errorf("service %q unknown to %s", service, address)
			case codes.DeadlineExceeded:
				return fmt.Errorf("health rpc to %s timed out", address)
			}
		}
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("unhealthy status %s", resp.GetStatus())
	}
	return nil
}
