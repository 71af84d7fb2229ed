// Package scenario generates synthetic training curves for exercising the
// monitor without a real training loop. Each generator is deterministic
// for a given seed, so demo output and tests are reproducible.
package scenario

import (
	"fmt"
	"math/rand"

	"github.com/synkyria/synkyria/pkg/monitor"
)

// Name identifies a built-in curve generator.
type Name string

const (
	// DeathSpiral is a permanent gradient explosion starting at epoch 6:
	// loss climbs and validation accuracy falls every epoch thereafter.
	DeathSpiral Name = "death-spiral"
	// TransientShock is a recoverable glitch: three bad epochs (8-10)
	// followed by a return to healthy dynamics.
	TransientShock Name = "transient-shock"
	// Healthy is an uneventful run that converges steadily.
	Healthy Name = "healthy"
	// NoisyPlateau converges early and then oscillates mildly around a
	// plateau, the regime where false positives are most tempting.
	NoisyPlateau Name = "noisy-plateau"
)

// Names lists the built-in scenarios in display order.
var Names = []Name{DeathSpiral, TransientShock, Healthy, NoisyPlateau}

// Generate returns the observation sequence for a named scenario. The
// number of epochs is fixed per scenario to match its shape.
func Generate(name Name, seed int64) ([]monitor.Observation, error) {
	rng := rand.New(rand.NewSource(seed))
	switch name {
	case DeathSpiral:
		return deathSpiral(rng), nil
	case TransientShock:
		return transientShock(rng), nil
	case Healthy:
		return healthy(rng), nil
	case NoisyPlateau:
		return noisyPlateau(rng), nil
	default:
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
}

func deathSpiral(rng *rand.Rand) []monitor.Observation {
	loss, acc := 2.5, 0.10
	obs := make([]monitor.Observation, 0, 25)
	for epoch := 1; epoch <= 25; epoch++ {
		if epoch >= 6 {
			// Permanent collapse: loss explodes, accuracy drops hard.
			loss += 0.5 + rng.Float64()*1.0
			acc -= 0.08 + rng.Float64()*0.07
		} else {
			loss -= 0.05 + rng.Float64()*0.10
			acc += 0.03 + rng.Float64()*0.02
		}
		loss, acc = clamp(loss, acc)
		obs = append(obs, monitor.Observation{Epoch: epoch, TrainLoss: loss, ValAcc: acc})
	}
	return obs
}

func transientShock(rng *rand.Rand) []monitor.Observation {
	loss, acc := 2.5, 0.10
	obs := make([]monitor.Observation, 0, 20)
	for epoch := 1; epoch <= 20; epoch++ {
		if epoch >= 8 && epoch <= 10 {
			// Bad batch: moderate degradation, nothing structural. The
			// accuracy dip is capped so the cumulative drop stays above the
			// collapse floor even in the worst draw.
			loss += 0.3 + rng.Float64()*0.2
			acc -= 0.02 + rng.Float64()*0.02
		} else {
			loss -= 0.05 + rng.Float64()*0.10
			acc += 0.03 + rng.Float64()*0.02
		}
		loss, acc = clamp(loss, acc)
		obs = append(obs, monitor.Observation{Epoch: epoch, TrainLoss: loss, ValAcc: acc})
	}
	return obs
}

func healthy(rng *rand.Rand) []monitor.Observation {
	loss, acc := 2.5, 0.10
	obs := make([]monitor.Observation, 0, 20)
	for epoch := 1; epoch <= 20; epoch++ {
		loss -= 0.05 + rng.Float64()*0.10
		acc += 0.03 + rng.Float64()*0.02
		loss, acc = clamp(loss, acc)
		obs = append(obs, monitor.Observation{Epoch: epoch, TrainLoss: loss, ValAcc: acc})
	}
	return obs
}

func noisyPlateau(rng *rand.Rand) []monitor.Observation {
	loss, acc := 2.5, 0.10
	obs := make([]monitor.Observation, 0, 30)
	for epoch := 1; epoch <= 30; epoch++ {
		if epoch <= 10 {
			loss -= 0.15 + rng.Float64()*0.05
			acc += 0.05 + rng.Float64()*0.02
		} else {
			// Converged: small symmetric noise around the plateau.
			loss += (rng.Float64() - 0.5) * 0.04
			acc += (rng.Float64() - 0.5) * 0.02
		}
		loss, acc = clamp(loss, acc)
		obs = append(obs, monitor.Observation{Epoch: epoch, TrainLoss: loss, ValAcc: acc})
	}
	return obs
}

func clamp(loss, acc float64) (float64, float64) {
	if loss < 0.1 {
		loss = 0.1
	}
	if acc > 0.99 {
		acc = 0.99
	}
	if acc < 0.05 {
		acc = 0.05
	}
	return loss, acc
}
