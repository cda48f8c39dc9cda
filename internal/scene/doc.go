// Package scene runs scene triggers against the gate scheduler and the
// parking backend.
//
// A trigger starts the optimistic gate animation for the scene's mode and
// calls the backend concurrently. When the backend answers, the
// Orchestrator replaces the session cache and snaps the gate to the
// confirmed outcome:
//
//	Trigger(id) ─▶ Scheduler.Start(mode)          (animation runs)
//	            └▶ Backend.TriggerScene(id) ─▶ sessions ─▶ cache, ForceStage(parked|exited)
//	                                        └▶ denial   ─▶ ForceStage(at_gate)
//	                                        └▶ failure  ─▶ advisory only
//
// A response belonging to a trigger that has since been superseded is
// dropped, so an old answer never overwrites a newer scene.
//
// # Thread Safety
//
// Orchestrator is safe for concurrent use. Broadcasters and telemetry are
// called without internal locks held.
package scene
