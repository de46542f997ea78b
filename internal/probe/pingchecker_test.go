package probe

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingChecker_Loopback(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := NewPingChecker().Check(ctx, "127.0.0.1")
	if err != nil && strings.Contains(err.Error(), "open icmp socket") {
		t.Skipf("icmp sockets not permitted here: %v", err)
	}
	assert.NoError(t, err)
}

func TestPingChecker_UnresolvableHost(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := NewPingChecker().Check(ctx, "does-not-exist.invalid")
	require.Error(t, err)
}

func TestPingChecker_SeqAdvances(t *testing.T) {
	p := NewPingChecker()
	a := p.seq.Add(1)
	b := p.seq.Add(1)
	assert.Equal(t, a+1, b)
}

func TestPingChecker_NoReply(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// 10.255.255.1 is non-routable; nothing answers before the deadline
	err := NewPingChecker().Check(ctx, "10.255.255.1")
	if err != nil && strings.Contains(err.Error(), "open icmp socket") {
		t.Skipf("icmp sockets not permitted here: %v", err)
	}
	require.Error(t, err)
	if strings.Contains(err.Error(), "send echo") {
		t.Skipf("no route for the echo here: %v", err)
	}
	assert.Contains(t, err.Error(), "no echo reply")
}
