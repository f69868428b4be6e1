package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "recgen"

// PrometheusMetrics implements Metrics on its own registry.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	counterparties  prometheus.Gauge
	predictedVolume prometheus.Gauge
	actualVolume    prometheus.Gauge
	phaseDuration   *prometheus.HistogramVec
	filesWritten    *prometheus.CounterVec
	outcomes        *prometheus.CounterVec
}

// NewPrometheusMetrics creates and registers every collector.
func NewPrometheusMetrics() *PrometheusMetrics {
	p := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		counterparties: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "counterparties",
			Help:      "Counterparties generated in the last cycle.",
		}),
		predictedVolume: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "predicted_transactions",
			Help:      "Transaction volume predicted by the plan for the last cycle.",
		}),
		actualVolume: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generated_transactions",
			Help:      "Transactions actually generated in the last cycle.",
		}),
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of each phase of a generation cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"phase"}),
		filesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_written_total",
			Help:      "Output files written, by kind.",
		}, []string{"kind"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_outcomes_total",
			Help:      "Validation results of generation cycles, by outcome.",
		}, []string{"outcome"}),
	}

	p.registry.MustRegister(
		p.counterparties,
		p.predictedVolume,
		p.actualVolume,
		p.phaseDuration,
		p.filesWritten,
		p.outcomes,
	)
	return p
}

func (p *PrometheusMetrics) ObservePhase(phase string, d time.Duration) {
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusMetrics) RecordPopulation(counterparties int, predictedVolume, actualVolume int64) {
	p.counterparties.Set(float64(counterparties))
	p.predictedVolume.Set(float64(predictedVolume))
	p.actualVolume.Set(float64(actualVolume))
}

func (p *PrometheusMetrics) RecordFiles(kind string, n int) {
	p.filesWritten.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusMetrics) RecordOutcome(outcome string) {
	p.outcomes.WithLabelValues(outcome).Inc()
}

// Gatherer exposes the registry, mainly for tests.
func (p *PrometheusMetrics) Gatherer() prometheus.Gatherer {
	return p.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
func (p *PrometheusMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("WriteTextfile: %q: %w", path, err)
	}
	return nil
}

var _ Metrics = (*PrometheusMetrics)(nil)
