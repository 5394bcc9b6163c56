package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	analyses    *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	fetchBars   *prometheus.HistogramVec
	fetchTime   *prometheus.HistogramVec
	degenerate  prometheus.Counter
}

// New creates a recorder registered on reg. Pass prometheus.DefaultRegisterer
// in production so the collectors show up on /metrics.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		analyses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocktrend_analyses_total",
				Help: "Analysis triggers by outcome",
			},
			[]string{"outcome"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocktrend_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		fetchBars: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocktrend_fetch_bars",
				Help:    "Number of daily bars returned per fetch",
				Buckets: []float64{0, 1, 5, 20, 60, 250, 500, 1000, 2500, 5000},
			},
			[]string{"provider"},
		),
		fetchTime: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocktrend_fetch_duration_seconds",
				Help:    "Market data fetch latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		degenerate: f.NewCounter(prometheus.CounterOpts{
			Name: "stocktrend_degenerate_fits_total",
			Help: "Fits where every day offset was identical",
		}),
	}
}

func (r *Recorder) RecordAnalysis(outcome string) {
	r.analyses.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordFetch(provider string, bars int, seconds float64) {
	r.fetchBars.WithLabelValues(provider).Observe(float64(bars))
	r.fetchTime.WithLabelValues(provider).Observe(seconds)
}

func (r *Recorder) RecordDegenerateFit() {
	r.degenerate.Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
