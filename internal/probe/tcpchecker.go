package probe

import (
	"context"
	"net"
	"strconv"
	"time"
)

// TCPChecker succeeds when a TCP connection to host:port is established.
type TCPChecker struct {
	Dialer *net.Dialer
}

func NewTCPChecker() *TCPChecker {
	return &TCPChecker{Dialer: &net.Dialer{Timeout: 5 * time.Second}}
}

func (c *TCPChecker) Check(ctx context.Context, host string, port int) error {
	conn, err := c.Dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return err
	}
	_ = conn.Close()
	return nil
}
