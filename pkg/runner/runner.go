// Package runner drives a Monitor over a stream of training observations,
// logging every snapshot and honouring the cooperative stop contract: the
// run ends as soon as the engine recommends a stop.
package runner

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/synkyria/synkyria/pkg/monitor"
	"github.com/synkyria/synkyria/pkg/telemetry"
)

// Source yields training observations in epoch order. Next blocks until an
// observation is available, the source is exhausted (io.EOF) or the
// context is cancelled.
type Source interface {
	Next(ctx context.Context) (monitor.Observation, error)
}

// SliceSource adapts a fixed observation sequence to the Source interface.
type SliceSource struct {
	obs []monitor.Observation
	pos int
}

// NewSliceSource wraps a pre-generated observation sequence.
func NewSliceSource(obs []monitor.Observation) *SliceSource {
	return &SliceSource{obs: obs}
}

// Next returns the next observation or io.EOF once exhausted.
func (s *SliceSource) Next(ctx context.Context) (monitor.Observation, error) {
	if err := ctx.Err(); err != nil {
		return monitor.Observation{}, err
	}
	if s.pos >= len(s.obs) {
		return monitor.Observation{}, io.EOF
	}
	ob := s.obs[s.pos]
	s.pos++
	return ob, nil
}

// Summary describes a completed (or stopped) run.
type Summary struct {
	RunID   string           `json:"run_id"`
	Epochs  int              `json:"epochs"`
	Stopped bool             `json:"stopped"`
	Final   monitor.Snapshot `json:"final"`
}

// Option customises a Runner.
type Option func(*Runner)

// WithMetrics records every snapshot into the given telemetry instance.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithSnapshotFunc invokes fn for every emitted snapshot, after logging
// and metrics recording. Used by the CLI for JSON output.
func WithSnapshotFunc(fn func(monitor.Snapshot)) Option {
	return func(r *Runner) { r.onSnapshot = fn }
}

// Runner owns one monitored run: a Monitor instance, a run ID and the
// observability sinks the snapshots flow into.
type Runner struct {
	mon        *monitor.Monitor
	log        zerolog.Logger
	metrics    *telemetry.Metrics
	onSnapshot func(monitor.Snapshot)
	runID      string
}

// New creates a Runner around an existing Monitor.
func New(mon *monitor.Monitor, logger zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{
		mon:   mon,
		runID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = logger.With().Str("run_id", r.runID).Logger()
	return r
}

// RunID returns the identifier assigned to this run.
func (r *Runner) RunID() string {
	return r.runID
}

// Run feeds observations from src into the monitor until the source is
// exhausted, the context is cancelled, or the engine recommends a stop.
// The returned Summary is valid even when err is non-nil and reflects the
// epochs processed so far.
func (r *Runner) Run(ctx context.Context, src Source) (Summary, error) {
	summary := Summary{RunID: r.runID}

	for {
		ob, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return summary, nil
		}
		if err != nil {
			return summary, err
		}

		snap := r.mon.Step(ob.Epoch, ob.TrainLoss, ob.ValAcc)
		summary.Epochs++
		summary.Final = snap

		r.observe(ob, snap)

		switch snap.Action {
		case monitor.ActionReduceLR:
			r.log.Warn().Int("epoch", snap.Epoch).Msg("therapy recommended: reduce learning rate")
		case monitor.ActionStop:
			summary.Stopped = true
			r.log.Error().
				Int("epoch", snap.Epoch).
				Str("status", string(snap.Status)).
				Msg("stop recommended, ending run")
			return summary, nil
		}
	}
}

func (r *Runner) observe(ob monitor.Observation, snap monitor.Snapshot) {
	r.log.Info().
		Int("epoch", snap.Epoch).
		Float64("train_loss", ob.TrainLoss).
		Float64("val_acc", ob.ValAcc).
		Float64("crq", snap.CRQ).
		Float64("scp", snap.SCP).
		Str("status", string(snap.Status)).
		Str("action", string(snap.Action)).
		Msg("epoch observed")

	if r.metrics != nil {
		r.metrics.ObserveStep(snap)
	}
	if r.onSnapshot != nil {
		r.onSnapshot(snap)
	}
}
