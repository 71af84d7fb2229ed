package monitor

import (
	"fmt"
	"sync"
)

// Monitor tracks the stability of a single training run. It owns a bounded
// rolling history of recent (loss, val) pairs and a risk-streak counter,
// and turns each per-epoch observation into a Snapshot.
//
// One Monitor serves exactly one run. Monitoring several runs concurrently
// requires one instance per run; instances share no state.
type Monitor struct {
	mu         sync.Mutex
	cfg        Config
	history    *history
	riskStreak int
}

// New creates a Monitor with the supplied configuration. It fails with
// ErrInvalidConfig when the window size is below 2; every other field is
// accepted as given.
func New(cfg Config) (*Monitor, error) {
	if cfg.WindowSize < 2 {
		return nil, fmt.Errorf("%w: window_size must be at least 2, got %d", ErrInvalidConfig, cfg.WindowSize)
	}
	return &Monitor{
		cfg:     cfg,
		history: newHistory(cfg.WindowSize),
	}, nil
}

// Config returns a copy of the configuration the Monitor was built with.
func (m *Monitor) Config() Config {
	return m.cfg
}

// Step ingests one (epoch, train_loss, val_acc) observation and returns
// the engine's assessment. The epoch index is echoed back unchanged and is
// not validated as monotonic. Step is total over finite numeric input;
// non-finite values propagate through the index arithmetic unchecked.
//
// While the window is filling, every call answers WARMUP with CRQ=0,
// SCP=1 and no action, and the risk streak is untouched.
func (m *Monitor) Step(epoch int, trainLoss, valAcc float64) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history.Record(trainLoss, valAcc)

	if !m.history.Warm() {
		return Snapshot{
			Epoch:  epoch,
			Status: StatusWarmup,
			CRQ:    0.0,
			SCP:    1.0,
			Action: ActionNone,
		}
	}

	crq := crisisQuotient(m.history.Losses(), m.cfg.CRQScale)
	scp := suspendedCoherence(m.history.Validations(), m.cfg.SCPSensitivity)
	status, action := m.govern(crq, scp)

	return Snapshot{
		Epoch:  epoch,
		Status: status,
		CRQ:    crq,
		SCP:    scp,
		Action: action,
	}
}

// govern applies the risk-streak transition for one warm epoch. Caller
// holds m.mu.
//
// A high SCP (above the hold floor) marks the field as "held": transient
// CRQ spikes are tolerated in that regime. Risk therefore requires either
// a CRQ breach while the field is not held, or SCP below its own
// threshold. Collapse is checked before chronic failure so a catastrophic
// coherence breakdown always wins regardless of streak length.
func (m *Monitor) govern(crq, scp float64) (Status, Action) {
	fieldHeld := scp > m.cfg.HoldFloor
	risky := (crq > m.cfg.CRQThreshold && !fieldHeld) || scp < m.cfg.SCPThreshold

	if !risky {
		// Stable or recovering: a single healthy epoch clears the streak.
		m.riskStreak = 0
		return StatusHealthy, ActionNone
	}

	m.riskStreak++
	switch {
	case m.riskStreak == 1:
		// First risky epoch: propose therapy once.
		return StatusRisk, ActionReduceLR
	case m.riskStreak >= 3:
		if scp < m.cfg.SCPStop {
			return StatusCollapse, ActionStop
		}
		if m.riskStreak >= m.cfg.ChronicRiskEpochs {
			return StatusChronicFailure, ActionStop
		}
		// Risk persists but coherence still justifies tolerance.
		return StatusHolding, ActionNone
	default:
		// Second consecutive risky epoch: no re-issued therapy.
		return StatusRisk, ActionNone
	}
}

// Reset clears the rolling history and the risk streak, keeping the
// configuration. It allows reusing one instance across independent runs.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history.Clear()
	m.riskStreak = 0
}
