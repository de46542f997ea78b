package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/heartbeat/internal/domain"
)

// Duration accepts a Go duration string ("30s", "1m30s") or a bare integer
// number of seconds.
type Duration time.Duration

const maxSeconds = math.MaxInt64 / int64(time.Second)

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", n.Line)
	}
	if secs, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
		if secs > maxSeconds || secs < -maxSeconds {
			return fmt.Errorf("line %d: duration %s seconds out of range", n.Line, n.Value)
		}
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	v, err := time.ParseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", n.Line, n.Value)
	}
	*d = Duration(v)
	return nil
}

type checkFile struct {
	Checks map[string]checkEntry `yaml:"checks"`
}

type checkEntry struct {
	Interval Duration `yaml:"interval"`
	Timeout  Duration `yaml:"timeout"`
	Type     string   `yaml:"type"`
	URL      string   `yaml:"url"`
	Status   int      `yaml:"status"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	DSN      string   `yaml:"dsn"`
	Address  string   `yaml:"address"`
	Service  string   `yaml:"service"`
}

// LoadChecks reads and validates the check declarations at path.
func LoadChecks(path string) ([]domain.Check, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checks: %w", err)
	}
	checks, err := ParseChecks(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return checks, nil
}

// ParseChecks decodes a checks document. Unknown keys are rejected and every
// validation problem is reported, not just the first. The result is sorted
// by name.
func ParseChecks(data []byte) ([]domain.Check, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f checkFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse checks: %w", err)
	}
	if len(f.Checks) == 0 {
		return nil, errors.New("no checks declared")
	}

	var (
		out  = make([]domain.Check, 0, len(f.Checks))
		errs error
	)
	for name, e := range f.Checks {
		c, err := e.toCheck(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, c)
	}
	if errs != nil {
		return nil, errs
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (e checkEntry) toCheck(name string) (domain.Check, error) {
	var errs error
	fail := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("check %q: "+format, append([]any{name}, args...)...))
	}

	if strings.TrimSpace(name) == "" {
		fail("empty name")
	}
	if e.Interval <= 0 {
		fail("interval must be positive")
	}
	if e.Timeout < 0 {
		fail("timeout must not be negative")
	}

	k := domain.Kind{
		Type:    domain.KindType(strings.ToLower(e.Type)),
		URL:     e.URL,
		Status:  e.Status,
		Host:    e.Host,
		Port:    e.Port,
		DSN:     e.DSN,
		Address: e.Address,
		Service: e.Service,
	}
	switch k.Type {
	case domain.KindHTTP:
		if u, err := url.Parse(k.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			fail("url must be an absolute http(s) URL")
		}
		if k.Status != 0 && (k.Status < 100 || k.Status > 599) {
			fail("status %d out of range 100-599", k.Status)
		}
	case domain.KindTCP:
		if k.Host == "" {
			fail("host is required")
		}
		if k.Port < 1 || k.Port > 65535 {
			fail("port %d out of range 1-65535", k.Port)
		}
	case domain.KindPing, domain.KindDNS:
		if k.Host == "" {
			fail("host is required")
		}
	case domain.KindPostgres:
		if k.DSN == "" {
			fail("dsn is required")
		}
	case domain.KindGRPC:
		if k.Address == "" {
			fail("address is required")
		}
	case "":
		fail("type is required")
	default:
		fail("unsupported type %q", e.Type)
	}
	if errs != nil {
		return domain.Check{}, errs
	}

	return domain.Check{
		Name:     name,
		Interval: time.Duration(e.Interval),
		Timeout:  time.Duration(e.Timeout),
		Kind:     k,
	}, nil
}
