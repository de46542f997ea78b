package probe

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const (
	protocolICMP     = 1
	protocolIPv6ICMP = 58
)

// PingChecker sends one ICMP echo request and waits for the matching reply.
//
// It first tries an unprivileged datagram ICMP socket (Linux needs
// net.ipv4.ping_group_range to cover the process group) and falls back to a
// raw socket, which needs CAP_NET_RAW or root.
type PingChecker struct {
	// Wait bounds the wait for a reply when ctx carries no deadline.
	Wait time.Duration

	seq atomic.Uint32
}

func NewPingChecker() *PingChecker {
	return &PingChecker{Wait: 3 * time.Second}
}

func (p *PingChecker) Check(ctx context.Context, host string) error {
	ip, err := resolveIP(ctx, host)
	if err != nil {
		return err
	}
	v4 := ip.To4() != nil

	conn, raw, err := listenICMP(v4)
	if err != nil {
		return err
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(p.Wait)
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	seq := int(p.seq.Add(1) & 0xffff)
	payload := make([]byte, 16)
	binary.BigEndian.PutUint64(payload, uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint64(payload[8:], uint64(seq))

	var (
		echoType  icmp.Type = ipv4.ICMPTypeEcho
		replyType icmp.Type = ipv4.ICMPTypeEchoReply
		proto               = protocolICMP
	)
	if !v4 {
		echoType, replyType, proto = ipv6.ICMPTypeEchoRequest, ipv6.ICMPTypeEchoReply, protocolIPv6ICMP
	}

	msg := icmp.Message{
		Type: echoType,
		Body: &icmp.Echo{ID: os.Getpid() & 0xffff, Seq: seq, Data: payload},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return err
	}

	var dst net.Addr = &net.UDPAddr{IP: ip}
	if raw {
		dst = &net.IPAddr{IP: ip}
	}
	if _, err := conn.WriteTo(wb, dst); err != nil {
		return fmt.Errorf("send echo to %s: %w", ip, err)
	}

	rb := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(rb)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("no echo reply from %s: %w", ip, ctx.Err())
			}
			return fmt.Errorf("no echo reply from %s: %w", ip, err)
		}
		if !sameIP(peer, ip) {
			continue
		}
		rm, err := icmp.ParseMessage(proto, rb[:n])
		if err != nil {
			continue
		}
		switch rm.Type {
		case replyType:
			// Datagram sockets rewrite the echo ID, so match on seq and payload.
			echo, ok := rm.Body.(*icmp.Echo)
			if ok && echo.Seq == seq && bytes.Equal(echo.Data, payload) {
				return nil
			}
		case ipv4.ICMPTypeDestinationUnreachable, ipv6.ICMPTypeDestinationUnreachable:
			return fmt.Errorf("destination %s unreachable", ip)
		case ipv4.ICMPTypeTimeExceeded, ipv6.ICMPTypeTimeExceeded:
			return fmt.Errorf("time exceeded reaching %s", ip)
		}
	}
}

func listenICMP(v4 bool) (*icmp.PacketConn, bool, error) {
	dgram, rawNet, addr := "udp4", "ip4:icmp", "0.0.0.0"
	if !v4 {
		dgram, rawNet, addr = "udp6", "ip6:ipv6-icmp", "::"
	}
	conn, err := icmp.ListenPacket(dgram, addr)
	if err == nil {
		return conn, false, nil
	}
	conn, rawErr := icmp.ListenPacket(rawNet, addr)
	if rawErr == nil {
		return conn, true, nil
	}
	return nil, false, fmt.Errorf("open icmp socket: %w", multierr.Append(err, rawErr))
}

func resolveIP(ctx context.Context, host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		return ip, nil
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	for _, a := range addrs {
		if a.IP.To4() != nil {
			return a.IP, nil
		}
	}
	if len(addrs) == 0 {
		return nil, errors.New("no addresses for " + host)
	}
	return addrs[0].IP, nil
}

func sameIP(addr net.Addr, ip net.IP) bool {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return a.IP.Equal(ip)
	case *net.IPAddr:
		return a.IP.Equal(ip)
	}
	return false
}
