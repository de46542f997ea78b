package domain

import (
	"strings"
	"testing"
	"time"
)

func TestCheck_DueNeverRun(t *testing.T) {
	c := Check{Name: "a", Interval: time.Hour}
	if !c.Due(time.Now()) {
		t.Fatalf("a check that never ran must be due")
	}
	if !c.NextDue().IsZero() {
		t.Fatalf("want zero NextDue, got %v", c.NextDue())
	}
}

func TestCheck_DueAfterInterval(t *testing.T) {
	t0 := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	c := Check{Name: "a", Interval: 10 * time.Second, LastRun: t0}

	if c.Due(t0.Add(10*time.Second - time.Nanosecond)) {
		t.Fatalf("due before the interval elapsed")
	}
	if !c.Due(t0.Add(10 * time.Second)) {
		t.Fatalf("not due once the interval elapsed")
	}
	if !c.NextDue().Equal(t0.Add(10 * time.Second)) {
		t.Fatalf("NextDue=%v", c.NextDue())
	}
}

func TestKind_Target(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{Kind{Type: KindHTTP, URL: "https://example.com"}, "https://example.com"},
		{Kind{Type: KindTCP, Host: "db.local", Port: 5432}, "db.local:5432"},
		{Kind{Type: KindTCP, Host: "::1", Port: 22}, "[::1]:22"},
		{Kind{Type: KindPing, Host: "10.0.0.1"}, "10.0.0.1"},
		{Kind{Type: KindGRPC, Address: "svc:9090", Service: "orders"}, "svc:9090/orders"},
		{Kind{Type: KindPostgres, DSN: "host=x user=y"}, "postgres"},
	}
	for _, c := range cases {
		if got := c.k.Target(); got != c.want {
			t.Fatalf("Target(%+v)=%q want %q", c.k, got, c.want)
		}
	}
}

func TestKind_TargetRedactsPostgresPassword(t *testing.T) {
	k := Kind{Type: KindPostgres, DSN: "postgres://app:s3cret@db:5432/app"}
	if got := k.Target(); strings.Contains(got, "s3cret") {
		t.Fatalf("password leaked in %q", got)
	}
}

func TestStatus_String(t *testing.T) {
	if s := Success(120 * time.Millisecond).String(); !strings.HasPrefix(s, "up") {
		t.Fatalf("unexpected %q", s)
	}
	s := Fail(time.Second, "connection refused").String()
	if !strings.HasPrefix(s, "down") || !strings.HasSuffix(s, "connection refused") {
		t.Fatalf("unexpected %q", s)
	}
}
