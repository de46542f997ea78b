package probe

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitAddr(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, p, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(p)
	require.NoError(t, err)
	return host, port
}

func TestTCPChecker_Connects(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	go func() {
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()

	host, port := splitAddr(t, l.Addr().String())
	assert.NoError(t, NewTCPChecker().Check(context.Background(), host, port))
}

func TestTCPChecker_Refused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port := splitAddr(t, l.Addr().String())
	l.Close()

	err = NewTCPChecker().Check(context.Background(), host, port)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}

func TestTCPChecker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, NewTCPChecker().Check(ctx, "127.0.0.1", 9))
}
