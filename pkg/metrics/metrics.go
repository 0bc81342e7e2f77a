// Package metrics exports wait outcomes as Prometheus metrics.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/thesyncim/pagewait/pkg/waitfor"
)

const namespace = "pagewait"

// Recorder is a waitfor.Observer that counts waits per condition name and
// result. Condition names are a small fixed set, so they are safe as
// label values; descriptions are not used.
type Recorder struct {
	waits    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	attempts *prometheus.HistogramVec
}

var _ waitfor.Observer = (*Recorder)(nil)

// NewRecorder registers the wait metrics with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		waits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waits_total",
			Help:      "Number of finished waits by condition and result.",
		}, []string{"condition", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "wait_duration_seconds",
			Help:      "Time from the first evaluation to the end of a wait.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"condition", "result"}),
		attempts: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "wait_attempts",
			Help:      "Evaluations per wait.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"condition"}),
	}
}

// ObserveWait records rep.
func (r *Recorder) ObserveWait(rep waitfor.Report) {
	result := string(rep.Result)
	r.waits.WithLabelValues(rep.Condition, result).Inc()
	r.duration.WithLabelValues(rep.Condition, result).Observe(rep.Elapsed.Seconds())
	r.attempts.WithLabelValues(rep.Condition).Observe(float64(rep.Attempts))
}

// WriteText writes everything g gathers in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
