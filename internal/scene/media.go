package scene

import "github.com/nerrad567/intellipark-core/internal/gate"

// PickImage selects the image to show for a scene at a stage. Each stage
// has a preferred image and falls back through the others so something is
// shown whenever the scene has any image at all. Returns "" when none is set.
func PickImage(s Scene, stage gate.Stage, mode gate.Mode) string {
	if mode == gate.ModeExit {
		switch stage {
		case gate.StageAtGate:
			return first(s.Exit, s.Entry, s.LotAfter, s.LotBefore)
		case gate.StageExited:
			return first(s.LotAfter, s.LotBefore, s.Exit, s.Entry)
		default:
			return first(s.Exit, s.LotAfter, s.LotBefore, s.Entry)
		}
	}

	switch stage {
	case gate.StageAtGate, gate.StageOpening:
		return first(s.Entry, s.LotBefore, s.LotAfter, s.Exit)
	case gate.StageMovingIn:
		return first(s.LotBefore, s.Entry, s.LotAfter, s.Exit)
	case gate.StageSearching, gate.StageParked:
		return first(s.LotAfter, s.LotBefore, s.Entry, s.Exit)
	default:
		return first(s.Entry, s.LotAfter, s.LotBefore, s.Exit)
	}
}

func first(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil && *c != "" {
			return *c
		}
	}
	return ""
}
