package gate

import "fmt"

// Stage is one discrete point in the gate sequence.
type Stage string

// Stage values, in presentation order.
const (
	StageIdle      Stage = "idle"
	StageAtGate    Stage = "at_gate"
	StageOpening   Stage = "opening"
	StageMovingIn  Stage = "moving_in"
	StageSearching Stage = "searching"
	StageParked    Stage = "parked"
	StageExited    Stage = "exited"
)

// AllStages returns every stage in enumeration order.
func AllStages() []Stage {
	return []Stage{
		StageIdle,
		StageAtGate,
		StageOpening,
		StageMovingIn,
		StageSearching,
		StageParked,
		StageExited,
	}
}

// ParseStage converts a string to a Stage.
func ParseStage(s string) (Stage, error) {
	for _, st := range AllStages() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("gate: unknown stage %q", s)
}

// Mode selects which stage sequence a run follows.
type Mode string

// Gate modes.
const (
	ModeEntry Mode = "entry"
	ModeExit  Mode = "exit"
)

// ModeFromType maps a scene type to a Mode. Anything other than "exit"
// (including an empty type) is an entry.
func ModeFromType(sceneType string) Mode {
	if sceneType == string(ModeExit) {
		return ModeExit
	}
	return ModeEntry
}

// Terminal returns the final stage of the mode's sequence.
func (m Mode) Terminal() Stage {
	if m == ModeExit {
		return StageExited
	}
	return StageParked
}
