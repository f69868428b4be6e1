package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStep records its execution and optionally fails.
type mockStep struct {
	name  string
	err   error
	trace *[]string
}

func (m *mockStep) Name() string { return m.name }

func (m *mockStep) Execute(ctx context.Context, state *State) error {
	*m.trace = append(*m.trace, m.name)
	return m.err
}

// recordingMetrics is a hand-written metrics.Metrics fake.
type recordingMetrics struct {
	mu       sync.Mutex
	phases   []string
	files    map[string]int
	outcomes []string
	volumes  [2]int64
	counts   int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{files: map[string]int{}}
}

func (m *recordingMetrics) ObservePhase(phase string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phases = append(m.phases, phase)
}

func (m *recordingMetrics) RecordPopulation(counterparties int, predictedVolume, actualVolume int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = counterparties
	m.volumes = [2]int64{predictedVolume, actualVolume}
}

func (m *recordingMetrics) RecordFiles(kind string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[kind] += n
}

func (m *recordingMetrics) RecordOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func TestPipeline_RunsStepsInOrder(t *testing.T) {
	var trace []string
	m := newRecordingMetrics()
	p := NewPipeline(m,
		&mockStep{name: "a", trace: &trace},
		&mockStep{name: "b", trace: &trace},
		&mockStep{name: "c", trace: &trace},
	)

	require.NoError(t, p.Execute(context.Background(), &State{}))
	assert.Equal(t, []string{"a", "b", "c"}, trace)
	assert.Equal(t, []string{"a", "b", "c"}, m.phases)
}

func TestPipeline_StopsAtFirstFailure(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	p := NewPipeline(nil,
		&mockStep{name: "a", trace: &trace},
		&mockStep{name: "b", err: boom, trace: &trace},
		&mockStep{name: "c", trace: &trace},
	)

	err := p.Execute(context.Background(), &State{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pipeline step 2 (b) failed")
	assert.Equal(t, []string{"a", "b"}, trace)
}

func TestPipeline_CancelledContext(t *testing.T) {
	var trace []string
	p := NewPipeline(nil, &mockStep{name: "a", trace: &trace})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Execute(ctx, &State{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, trace)
}
