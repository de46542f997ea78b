package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/hamed0406/heartbeat/internal/domain"
)

const sample = `
checks:
  site:
    interval: 30s
    type: http
    url: https://example.com
    status: 204
    timeout: 5s
  ssh:  {interval: 60, type: tcp, host: example.com, port: 22}
  gw:   {interval: 10s, type: ping, host: 10.0.0.1}
  name: {interval: 5m, type: dns, host: example.com}
  db:   {interval: 1m, type: postgres, dsn: "postgres://u:p@db:5432/app"}
  rpc:  {interval: 30s, type: grpc, address: "svc:9090", service: billing}
`

func TestParseChecks(t *testing.T) {
	checks, err := ParseChecks([]byte(sample))
	require.NoError(t, err)
	require.Len(t, checks, 6)

	var names []string
	for _, c := range checks {
		names = append(names, c.Name)
		assert.True(t, c.LastRun.IsZero())
		assert.Nil(t, c.LastStatus)
	}
	assert.Equal(t, []string{"db", "gw", "name", "rpc", "site", "ssh"}, names)

	site := checks[4]
	assert.Equal(t, 30*time.Second, site.Interval)
	assert.Equal(t, 5*time.Second, site.Timeout)
	assert.Equal(t, domain.Kind{Type: domain.KindHTTP, URL: "https://example.com", Status: 204}, site.Kind)

	ssh := checks[5]
	assert.Equal(t, time.Minute, ssh.Interval, "bare integers are seconds")
	assert.Equal(t, 22, ssh.Kind.Port)

	assert.Equal(t, "billing", checks[3].Kind.Service)
}

func TestParseChecks_ReportsEveryProblem(t *testing.T) {
	_, err := ParseChecks([]byte(`
checks:
  a: {interval: 0s, type: http, url: "ftp://x"}
  b: {interval: 1s, type: tcp, host: h, port: 70000}
  c: {interval: 1s, type: smtp}
  d: {interval: 1s, type: http, url: "https://x", status: 42}
  e: {interval: 1s}
`))
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 6)
	msg := err.Error()
	for _, want := range []string{
		`check "a": interval must be positive`,
		`check "a": url must be an absolute http(s) URL`,
		`check "b": port 70000 out of range`,
		`check "c": unsupported type "smtp"`,
		`check "d": status 42 out of range`,
		`check "e": type is required`,
	} {
		assert.Contains(t, msg, want)
	}
}

func TestParseChecks_RejectsUnknownFields(t *testing.T) {
	_, err := ParseChecks([]byte("checks:\n  a: {interval: 1s, type: ping, host: h, hots: x}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hots")
}

func TestParseChecks_Empty(t *testing.T) {
	_, err := ParseChecks(nil)
	assert.EqualError(t, err, "no checks declared")

	_, err = ParseChecks([]byte("checks: {}\n"))
	assert.EqualError(t, err, "no checks declared")
}

func TestParseChecks_BadDuration(t *testing.T) {
	_, err := ParseChecks([]byte("checks:\n  a: {interval: soon, type: ping, host: h}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid duration "soon"`)
}

func TestLoadChecks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	checks, err := LoadChecks(path)
	require.NoError(t, err)
	assert.Len(t, checks, 6)

	_, err = LoadChecks(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseChecks_HugeSecondsRejected(t *testing.T) {
	_, err := ParseChecks([]byte("checks:\n  a: {interval: 9223372036854775807, type: ping, host: h}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	checks, err := ParseChecks([]byte("checks:\n  a: {interval: 9223372036, type: ping, host: h}\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(9223372036)*time.Second, checks[0].Interval)
}
