package scene

import (
	"testing"

	"github.com/nerrad567/intellipark-core/internal/gate"
)

func TestPickImage(t *testing.T) {
	full := Scene{
		Entry:     strPtr("entry.jpg"),
		LotBefore: strPtr("before.jpg"),
		LotAfter:  strPtr("after.jpg"),
		Exit:      strPtr("exit.jpg"),
	}
	onlyAfter := Scene{LotAfter: strPtr("after.jpg")}

	tests := []struct {
		name  string
		scene Scene
		stage gate.Stage
		mode  gate.Mode
		want  string
	}{
		{"entry at gate", full, gate.StageAtGate, gate.ModeEntry, "entry.jpg"},
		{"entry opening", full, gate.StageOpening, gate.ModeEntry, "entry.jpg"},
		{"entry moving", full, gate.StageMovingIn, gate.ModeEntry, "before.jpg"},
		{"entry searching", full, gate.StageSearching, gate.ModeEntry, "after.jpg"},
		{"entry parked", full, gate.StageParked, gate.ModeEntry, "after.jpg"},
		{"entry idle", full, gate.StageIdle, gate.ModeEntry, "entry.jpg"},
		{"exit at gate", full, gate.StageAtGate, gate.ModeExit, "exit.jpg"},
		{"exit moving", full, gate.StageMovingIn, gate.ModeExit, "exit.jpg"},
		{"exit exited", full, gate.StageExited, gate.ModeExit, "after.jpg"},
		{"fallback entry at gate", onlyAfter, gate.StageAtGate, gate.ModeEntry, "after.jpg"},
		{"fallback exit at gate", onlyAfter, gate.StageAtGate, gate.ModeExit, "after.jpg"},
		{"no images", Scene{}, gate.StageParked, gate.ModeEntry, ""},
		{"empty string skipped", Scene{Entry: strPtr(""), Exit: strPtr("exit.jpg")}, gate.StageAtGate, gate.ModeEntry, "exit.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PickImage(tt.scene, tt.stage, tt.mode); got != tt.want {
				t.Errorf("PickImage() = %q, want %q", got, tt.want)
			}
		})
	}
}
