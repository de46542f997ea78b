package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hamed0406/heartbeat/internal/notify"
)

// Recorder exports the latest outcome of every check as Prometheus series.
type Recorder struct {
	up       *prometheus.GaugeVec
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		up: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "heartbeat",
			Name:      "check_up",
			Help:      "1 if the last completed probe of the check succeeded, 0 otherwise.",
		}, []string{"check", "type"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "heartbeat",
			Name:      "check_duration_seconds",
			Help:      "Probe duration.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"check", "type"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heartbeat",
			Name:      "check_runs_total",
			Help:      "Completed probes by result.",
		}, []string{"check", "type", "result"}),
	}
	reg.MustRegister(r.up, r.duration, r.runs)
	return r
}

func (r *Recorder) Observe(e notify.Event) {
	typ := string(e.Kind.Type)
	result, up := "fail", 0.0
	if e.Status.Up {
		result, up = "success", 1
	}
	r.up.WithLabelValues(e.Check, typ).Set(up)
	r.duration.WithLabelValues(e.Check, typ).Observe(e.Status.Elapsed.Seconds())
	r.runs.WithLabelValues(e.Check, typ, result).Inc()
}
