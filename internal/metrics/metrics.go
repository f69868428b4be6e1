// Package metrics records what each generation cycle produced and how long
// its phases took.
//
// The Metrics interface is what the pipeline talks to. PrometheusMetrics keeps
// the values on a private registry and can dump them in the node-exporter
// textfile format, so a scheduler running the generator can pick them up
// without the generator serving HTTP.
//
// Usage Example:
//
//	m := metrics.NewPrometheusMetrics()
//	m.ObservePhase("generate", 2*time.Second)
//	m.RecordOutcome("valid")
//	_ = m.WriteTextfile("/var/lib/node_exporter/recgen.prom")
package metrics

import "time"

// Phase names used as label values.
const (
	PhaseGenerate   = "generate"
	PhaseCSV        = "csv"
	PhaseStatements = "statements"
	PhaseXLSX       = "xlsx"
	PhaseSchema     = "schema"
	PhaseValidate   = "validate"
)

// Metrics is implemented by every metrics backend.
type Metrics interface {
	ObservePhase(phase string, d time.Duration)
	RecordPopulation(counterparties int, predictedVolume, actualVolume int64)
	RecordFiles(kind string, n int)
	RecordOutcome(outcome string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObservePhase(string, time.Duration) {}

func (Nop) RecordPopulation(int, int64, int64) {}

func (Nop) RecordFiles(string, int) {}

func (Nop) RecordOutcome(string) {}

var _ Metrics = Nop{}
