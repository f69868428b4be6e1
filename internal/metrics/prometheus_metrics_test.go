package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPopulation(t *testing.T) {
	m := NewPrometheusMetrics()
	m.RecordPopulation(100, 1040, 1039)

	assert.Equal(t, 100.0, testutil.ToFloat64(m.counterparties))
	assert.Equal(t, 1040.0, testutil.ToFloat64(m.predictedVolume))
	assert.Equal(t, 1039.0, testutil.ToFloat64(m.actualVolume))
}

func TestRecordFilesAndOutcomes(t *testing.T) {
	m := NewPrometheusMetrics()
	m.RecordFiles("statement", 100)
	m.RecordFiles("statement", 100)
	m.RecordFiles("ledger", 1)
	m.RecordOutcome("valid")
	m.RecordOutcome("valid")
	m.RecordOutcome("volume_mismatch")

	assert.Equal(t, 200.0, testutil.ToFloat64(m.filesWritten.WithLabelValues("statement")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.filesWritten.WithLabelValues("ledger")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.outcomes.WithLabelValues("valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues("volume_mismatch")))
}

func TestObservePhase(t *testing.T) {
	m := NewPrometheusMetrics()
	m.ObservePhase(PhaseGenerate, 20*time.Millisecond)
	m.ObservePhase(PhaseCSV, 5*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.phaseDuration))
}

func TestWriteTextfile(t *testing.T) {
	m := NewPrometheusMetrics()
	m.RecordPopulation(100, 1040, 1040)
	m.RecordOutcome("valid")

	path := filepath.Join(t.TempDir(), "recgen.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "recgen_counterparties 100")
	assert.Contains(t, string(data), `recgen_validation_outcomes_total{outcome="valid"} 1`)
}

func TestWriteTextfile_BadPath(t *testing.T) {
	m := NewPrometheusMetrics()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "recgen.prom"))
	assert.Error(t, err)
}
