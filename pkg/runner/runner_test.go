package runner_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synkyria/synkyria/pkg/monitor"
	"github.com/synkyria/synkyria/pkg/runner"
	"github.com/synkyria/synkyria/pkg/scenario"
	"github.com/synkyria/synkyria/pkg/telemetry"
)

func newMonitor(t *testing.T) *monitor.Monitor {
	t.Helper()
	mon, err := monitor.New(monitor.DefaultConfig())
	require.NoError(t, err)
	return mon
}

func TestRunner_AssignsRunID(t *testing.T) {
	r := runner.New(newMonitor(t), zerolog.Nop())
	_, err := uuid.Parse(r.RunID())
	assert.NoError(t, err)
}

func TestRun_ExhaustsHealthySource(t *testing.T) {
	obs, err := scenario.Generate(scenario.Healthy, 1)
	require.NoError(t, err)

	r := runner.New(newMonitor(t), zerolog.Nop())
	summary, err := r.Run(context.Background(), runner.NewSliceSource(obs))
	require.NoError(t, err)

	assert.Equal(t, len(obs), summary.Epochs)
	assert.False(t, summary.Stopped)
	assert.Equal(t, monitor.StatusHealthy, summary.Final.Status)
	assert.Equal(t, r.RunID(), summary.RunID)
}

func TestRun_StopsFeedingOnStopAction(t *testing.T) {
	obs, err := scenario.Generate(scenario.DeathSpiral, 1)
	require.NoError(t, err)

	var seen []monitor.Snapshot
	r := runner.New(newMonitor(t), zerolog.Nop(),
		runner.WithSnapshotFunc(func(snap monitor.Snapshot) {
			seen = append(seen, snap)
		}))

	summary, err := r.Run(context.Background(), runner.NewSliceSource(obs))
	require.NoError(t, err)

	assert.True(t, summary.Stopped)
	assert.Less(t, summary.Epochs, len(obs), "run should end before the source is exhausted")
	assert.Equal(t, monitor.ActionStop, summary.Final.Action)

	// The callback saw every emitted snapshot, ending with the stop.
	require.Len(t, seen, summary.Epochs)
	assert.Equal(t, summary.Final, seen[len(seen)-1])
}

func TestRun_RecordsMetrics(t *testing.T) {
	obs, err := scenario.Generate(scenario.Healthy, 3)
	require.NoError(t, err)

	metrics := telemetry.NewMetrics()
	r := runner.New(newMonitor(t), zerolog.Nop(), runner.WithMetrics(metrics))
	summary, err := r.Run(context.Background(), runner.NewSliceSource(obs))
	require.NoError(t, err)
	require.Equal(t, len(obs), summary.Epochs)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)

	total := 0.0
	for _, fam := range families {
		if fam.GetName() == "synkyria_steps_total" {
			for _, m := range fam.GetMetric() {
				total += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(len(obs)), total)
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	obs, err := scenario.Generate(scenario.Healthy, 1)
	require.NoError(t, err)

	r := runner.New(newMonitor(t), zerolog.Nop())
	summary, err := r.Run(ctx, runner.NewSliceSource(obs))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Epochs)
}
