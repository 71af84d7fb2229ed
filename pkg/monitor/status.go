package monitor

// Status classifies the health of a training run at a given epoch.
type Status string

const (
	// StatusWarmup indicates the rolling window is not yet full.
	StatusWarmup Status = "WARMUP"
	// StatusHealthy indicates a stable run with no intervention needed.
	StatusHealthy Status = "HEALTHY"
	// StatusRisk is the early-warning classification, typically paired with
	// a learning-rate reduction on its first occurrence.
	StatusRisk Status = "RISK"
	// StatusHolding indicates sustained risk with enough residual coherence
	// to justify tolerance rather than a stop.
	StatusHolding Status = "HOLDING"
	// StatusCollapse indicates structural failure: coherence broke down
	// under sustained risk.
	StatusCollapse Status = "COLLAPSE"
	// StatusChronicFailure indicates a long unresolved risk streak without
	// a catastrophic coherence drop.
	StatusChronicFailure Status = "CHRONIC_FAILURE"
)

// Statuses lists every status the engine can emit, in escalation order.
var Statuses = []Status{
	StatusWarmup,
	StatusHealthy,
	StatusRisk,
	StatusHolding,
	StatusCollapse,
	StatusChronicFailure,
}

// Action is the intervention the engine recommends to the training loop.
type Action string

const (
	// ActionNone recommends no intervention.
	ActionNone Action = "NONE"
	// ActionReduceLR suggests halving (or similar) the learning rate.
	ActionReduceLR Action = "REDUCE_LR"
	// ActionStop suggests a hard stop of the run.
	ActionStop Action = "STOP"
)

// Actions lists every action the engine can emit.
var Actions = []Action{ActionNone, ActionReduceLR, ActionStop}

// Snapshot is the engine's assessment for a single epoch. It is returned
// by value and never retained by the engine; the caller owns it.
type Snapshot struct {
	Epoch  int     `json:"epoch"`
	Status Status  `json:"status"`
	CRQ    float64 `json:"crq"`
	SCP    float64 `json:"scp"`
	Action Action  `json:"action"`
}

// Observation is one (epoch, train_loss, val_acc) triple as produced by a
// training loop. Harness packages (feed, scenario, runner) exchange
// observations in this shape; the engine itself takes the scalars directly.
type Observation struct {
	Epoch     int     `json:"epoch"`
	TrainLoss float64 `json:"train_loss"`
	ValAcc    float64 `json:"val_acc"`
}
