package monitor

import "errors"

// ErrInvalidConfig is returned by New when the configuration cannot
// produce a working engine.
var ErrInvalidConfig = errors.New("invalid monitor configuration")

// Config holds the tuning knobs of the engine. It is immutable for the
// lifetime of a Monitor.
//
// Only WindowSize is validated (it must be at least 2 so that consecutive
// loss differences exist). The threshold fields are accepted as supplied:
// the defaults assume scp_stop < scp_threshold < hold_floor but the engine
// does not enforce that ordering.
type Config struct {
	// WindowSize is the number of recent epochs kept in the rolling window.
	WindowSize int `yaml:"window_size"`
	// CRQThreshold is the Crisis Quotient level above which the run is
	// considered at risk when the field is not held.
	CRQThreshold float64 `yaml:"crq_threshold"`
	// SCPThreshold is the coherence level below which the run is
	// considered at risk regardless of CRQ.
	SCPThreshold float64 `yaml:"scp_threshold"`
	// HoldFloor is the coherence level above which the field counts as
	// "held" and transient CRQ spikes are tolerated.
	HoldFloor float64 `yaml:"hold_floor"`
	// SCPStop is the coherence level below which sustained risk is treated
	// as structural collapse.
	SCPStop float64 `yaml:"scp_stop"`
	// ChronicRiskEpochs is the risk-streak length after which an
	// unresolved run is classified as chronic failure.
	ChronicRiskEpochs int `yaml:"chronic_risk_epochs"`
	// CRQScale normalises the mean positive loss jump into [0, 1].
	CRQScale float64 `yaml:"crq_scale"`
	// SCPSensitivity maps the validation drop from its recent peak into
	// [0, 1]. Higher values make SCP decline faster.
	SCPSensitivity float64 `yaml:"scp_sensitivity"`
}

// DefaultConfig returns the stock tuning used by the demo scenarios.
func DefaultConfig() Config {
	return Config{
		WindowSize:        5,
		CRQThreshold:      0.8,
		SCPThreshold:      0.4,
		HoldFloor:         0.80,
		SCPStop:           0.30,
		ChronicRiskEpochs: 6,
		CRQScale:          10.0,
		SCPSensitivity:    5.0,
	}
}
