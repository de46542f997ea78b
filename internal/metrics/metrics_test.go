package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/hamed0406/heartbeat/internal/domain"
	"github.com/hamed0406/heartbeat/internal/notify"
)

func TestRecorder_TracksLatestOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	kind := domain.Kind{Type: domain.KindHTTP, URL: "https://example.com"}

	r.Observe(notify.Event{Check: "site", Kind: kind, Status: domain.Success(20 * time.Millisecond)})
	assert.Equal(t, 1.0, testutil.ToFloat64(r.up.WithLabelValues("site", "http")))

	r.Observe(notify.Event{Check: "site", Kind: kind, Status: domain.Fail(time.Second, "500")})
	assert.Equal(t, 0.0, testutil.ToFloat64(r.up.WithLabelValues("site", "http")))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("site", "http", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("site", "http", "fail")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
}
