package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	outcomes      *prom.CounterVec
	duration      prom.Histogram
	bytes         prom.Counter
	lastPublished prom.Gauge
}

// NewPrometheusRecorder constructs and registers the publish metrics on reg.
// A nil registry gets a private one, which keeps tests isolated.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "publish_outcomes_total",
			Help:      "Static artifact publish runs by outcome",
		}, []string{"outcome"}),
		duration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "publish_duration_seconds",
			Help:      "Duration of static artifact publish runs",
			Buckets:   prom.DefBuckets,
		}),
		bytes: prom.NewCounter(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "published_bytes_total",
			Help:      "Bytes copied into the static-assets directory",
		}),
		lastPublished: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docsite",
			Name:      "last_publish_timestamp_seconds",
			Help:      "Unix time of the last successful publish",
		}),
	}
	reg.MustRegister(pr.outcomes, pr.duration, pr.bytes, pr.lastPublished)
	return pr
}

func (p *PrometheusRecorder) IncPublishOutcome(result ResultLabel) {
	if p == nil {
		return
	}
	p.outcomes.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObservePublishDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.duration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddPublishedBytes(n int64) {
	if p == nil || n <= 0 {
		return
	}
	p.bytes.Add(float64(n))
}

func (p *PrometheusRecorder) SetLastPublishTimestamp(t time.Time) {
	if p == nil {
		return
	}
	p.lastPublished.Set(float64(t.Unix()))
}
