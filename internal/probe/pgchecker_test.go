package probe

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresChecker_BadDSN(t *testing.T) {
	err := NewPostgresChecker().Check(context.Background(), "postgres://%zz")
	assert.Error(t, err)
}

func TestPostgresChecker_NothingListening(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err = NewPostgresChecker().Check(ctx, "postgres://u:p@"+addr+"/db?sslmode=disable")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "u:p@", "credentials must not leak into the reason")
}
