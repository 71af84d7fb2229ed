// Package monitor implements the core training-run stability engine.
//
// Architecture:
//
// config.go  - Config, defaults and construction-time validation
// history.go - fixed-capacity rolling window over (loss, val) pairs
// indices.go - CRQ and SCP index computation over the warm window
// monitor.go - Monitor: per-epoch Step transition and governance logic
// status.go  - Status/Action enumerations and the Snapshot result
//
// The engine is fed one (epoch, train_loss, val_acc) observation per epoch
// by an external training loop and answers with a Snapshot carrying two
// derived indices and a recommended action:
//
//   - CRQ (Crisis Quotient): downside volatility of the loss, in [0, 1]
//   - SCP (Suspended Coherence): how close validation performance remains
//     to its recent peak, in [0, 1]
//
// Governance escalates through WARMUP, HEALTHY, RISK, HOLDING and the two
// terminal classifications COLLAPSE and CHRONIC_FAILURE. Terminal states
// are cooperative: the engine keeps answering Step calls and relies on the
// caller to stop the run once it receives ActionStop.
package monitor
