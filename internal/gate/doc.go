// Package gate provides the timed gate staging engine for IntelliPark Core.
//
// A vehicle passing the gate is shown as a sequence of discrete stages
// (at_gate, opening, moving_in, ...). The Scheduler advances through the
// sequence for a mode on a timer and can be preempted at any point:
//
//	┌───────────┐  Start(mode)   ┌──────────────────────────────┐
//	│ Scheduler │ ─────────────▶ │ cancel pending, bump run id, │
//	│           │                │ schedule stage offsets       │
//	│           │  ForceStage    ├──────────────────────────────┤
//	│           │ ─────────────▶ │ cancel pending, bump run id, │
//	│           │                │ set stage immediately        │
//	└───────────┘                └──────────────────────────────┘
//
// # Key Types
//
//   - Stage: one point in the entry or exit sequence
//   - Mode: entry or exit
//   - TimelineItem: stage + label shown in the status panel
//   - Delays: per-stage durations used to build the schedule offsets
//   - Scheduler: owns the current stage, the active plate label and the timers
//
// # Thread Safety
//
// Scheduler is safe for concurrent use. At most one schedule is live at any
// time: every Start and ForceStage stops the previous run's timers and bumps
// a run generation, so a callback that was already in flight when it was
// cancelled sees a stale generation and does nothing.
package gate
