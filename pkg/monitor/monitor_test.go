package monitor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synkyria/synkyria/pkg/monitor"
	"github.com/synkyria/synkyria/pkg/scenario"
)

func TestNew_RejectsSmallWindow(t *testing.T) {
	for _, w := range []int{-1, 0, 1} {
		cfg := monitor.DefaultConfig()
		cfg.WindowSize = w
		_, err := monitor.New(cfg)
		assert.ErrorIs(t, err, monitor.ErrInvalidConfig, "window %d", w)
	}

	_, err := monitor.New(monitor.Config{WindowSize: 2})
	assert.NoError(t, err)
}

func TestNew_NoCrossFieldValidation(t *testing.T) {
	// Nonsensical threshold orderings are accepted as supplied.
	cfg := monitor.DefaultConfig()
	cfg.SCPStop = 0.9
	cfg.SCPThreshold = 0.1
	cfg.HoldFloor = -2.0

	_, err := monitor.New(cfg)
	assert.NoError(t, err)
}

func TestStep_WarmupPhase(t *testing.T) {
	mon, err := monitor.New(monitor.DefaultConfig())
	require.NoError(t, err)

	for epoch := 1; epoch <= 4; epoch++ {
		snap := mon.Step(epoch, 2.5, 0.1)
		assert.Equal(t, epoch, snap.Epoch)
		assert.Equal(t, monitor.StatusWarmup, snap.Status)
		assert.Equal(t, 0.0, snap.CRQ)
		assert.Equal(t, 1.0, snap.SCP)
		assert.Equal(t, monitor.ActionNone, snap.Action)
	}

	// The fifth call fills the window and runs governance.
	snap := mon.Step(5, 2.5, 0.1)
	assert.NotEqual(t, monitor.StatusWarmup, snap.Status)
}

// warmUp feeds five healthy epochs: decreasing loss, rising validation.
func warmUp(t *testing.T, mon *monitor.Monitor, vals [5]float64) {
	t.Helper()
	losses := [5]float64{2.5, 2.4, 2.3, 2.2, 2.1}
	for i := 0; i < 5; i++ {
		snap := mon.Step(i+1, losses[i], vals[i])
		if i < 4 {
			require.Equal(t, monitor.StatusWarmup, snap.Status)
		} else {
			require.Equal(t, monitor.StatusHealthy, snap.Status)
		}
	}
}

func TestGovernance_CollapseUnderSustainedIncoherence(t *testing.T) {
	mon, err := monitor.New(monitor.DefaultConfig())
	require.NoError(t, err)
	warmUp(t, mon, [5]float64{0.10, 0.14, 0.18, 0.22, 0.26})

	// First risky epoch proposes therapy.
	snap := mon.Step(6, 2.8, 0.10)
	assert.Equal(t, monitor.StatusRisk, snap.Status)
	assert.Equal(t, monitor.ActionReduceLR, snap.Action)
	assert.InDelta(t, 1.0, snap.CRQ, 1e-9)  // one +0.7 jump, clipped
	assert.InDelta(t, 0.20, snap.SCP, 1e-9) // drop 0.16 from peak 0.26

	// Second risky epoch does not re-issue therapy.
	snap = mon.Step(7, 3.4, 0.08)
	assert.Equal(t, monitor.StatusRisk, snap.Status)
	assert.Equal(t, monitor.ActionNone, snap.Action)

	// Third risky epoch with coherence below the stop floor: collapse.
	snap = mon.Step(8, 4.0, 0.06)
	assert.Equal(t, monitor.StatusCollapse, snap.Status)
	assert.Equal(t, monitor.ActionStop, snap.Action)
	assert.InDelta(t, 0.0, snap.SCP, 1e-9)
}

func TestGovernance_HoldingAndHeldRecovery(t *testing.T) {
	mon, err := monitor.New(monitor.DefaultConfig())
	require.NoError(t, err)
	warmUp(t, mon, [5]float64{0.10, 0.14, 0.18, 0.22, 0.26})

	type step struct {
		loss, val float64
		status    monitor.Status
		action    monitor.Action
	}
	// Loss keeps jumping by 0.5 while validation sits 0.10 under its peak:
	// risky via high CRQ with the field not held, but coherent enough
	// (SCP=0.5) to tolerate once the streak passes two.
	steps := []step{
		{2.6, 0.16, monitor.StatusRisk, monitor.ActionReduceLR},
		{3.1, 0.16, monitor.StatusRisk, monitor.ActionNone},
		{3.6, 0.16, monitor.StatusHolding, monitor.ActionNone},
		{4.1, 0.16, monitor.StatusHolding, monitor.ActionNone},
		// Peak leaves the window: SCP=1, the field is held, and the CRQ
		// spike alone no longer counts as risk.
		{4.6, 0.16, monitor.StatusHealthy, monitor.ActionNone},
		// A fresh risky epoch starts a new streak: therapy is re-issued.
		{5.1, 0.06, monitor.StatusRisk, monitor.ActionReduceLR},
	}
	for i, s := range steps {
		snap := mon.Step(6+i, s.loss, s.val)
		assert.Equal(t, s.status, snap.Status, "epoch %d", 6+i)
		assert.Equal(t, s.action, snap.Action, "epoch %d", 6+i)
	}
}

func TestGovernance_ChronicFailure(t *testing.T) {
	mon, err := monitor.New(monitor.DefaultConfig())
	require.NoError(t, err)
	warmUp(t, mon, [5]float64{0.5, 0.6, 0.7, 0.8, 0.9})

	// Loss jumps 0.5 per epoch while validation bleeds 0.0325 per epoch:
	// SCP settles at 0.35, between the stop floor and the risk threshold,
	// so the streak exhausts the chronic epoch count without collapsing.
	loss, val := 2.1, 0.9
	var last monitor.Snapshot
	expected := []struct {
		status monitor.Status
		action monitor.Action
	}{
		{monitor.StatusHealthy, monitor.ActionNone}, // still held at SCP 0.84
		{monitor.StatusRisk, monitor.ActionReduceLR},
		{monitor.StatusRisk, monitor.ActionNone},
		{monitor.StatusHolding, monitor.ActionNone},
		{monitor.StatusHolding, monitor.ActionNone},
		{monitor.StatusHolding, monitor.ActionNone},
		{monitor.StatusChronicFailure, monitor.ActionStop},
	}
	for i, want := range expected {
		loss += 0.5
		val -= 0.0325
		last = mon.Step(6+i, loss, val)
		assert.Equal(t, want.status, last.Status, "epoch %d", 6+i)
		assert.Equal(t, want.action, last.Action, "epoch %d", 6+i)
	}
	assert.InDelta(t, 0.35, last.SCP, 1e-6)
}

func TestStep_KeepsAnsweringAfterStop(t *testing.T) {
	mon, err := monitor.New(monitor.DefaultConfig())
	require.NoError(t, err)
	warmUp(t, mon, [5]float64{0.10, 0.14, 0.18, 0.22, 0.26})

	mon.Step(6, 2.8, 0.10)
	mon.Step(7, 3.4, 0.08)
	snap := mon.Step(8, 4.0, 0.06)
	require.Equal(t, monitor.ActionStop, snap.Action)

	// The stop contract is cooperative: further calls still answer.
	snap = mon.Step(9, 4.6, 0.04)
	assert.Equal(t, monitor.StatusCollapse, snap.Status)
	assert.Equal(t, monitor.ActionStop, snap.Action)
}

func TestReset_ReplayProducesIdenticalSnapshots(t *testing.T) {
	obs, err := scenario.Generate(scenario.DeathSpiral, 7)
	require.NoError(t, err)

	mon, err := monitor.New(monitor.DefaultConfig())
	require.NoError(t, err)

	first := make([]monitor.Snapshot, 0, len(obs))
	for _, ob := range obs {
		first = append(first, mon.Step(ob.Epoch, ob.TrainLoss, ob.ValAcc))
	}

	mon.Reset()

	second := make([]monitor.Snapshot, 0, len(obs))
	for _, ob := range obs {
		second = append(second, mon.Step(ob.Epoch, ob.TrainLoss, ob.ValAcc))
	}

	assert.Equal(t, first, second)
}

func TestConfig_CopyIsReturned(t *testing.T) {
	cfg := monitor.DefaultConfig()
	mon, err := monitor.New(cfg)
	require.NoError(t, err)

	got := mon.Config()
	got.WindowSize = 99
	assert.Equal(t, cfg, mon.Config())
}
