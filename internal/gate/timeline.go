package gate

// TimelineItem is a stage as surfaced in the status panel.
type TimelineItem struct {
	Key   Stage  `json:"key"`
	Label string `json:"label"`
}

// ItemState is the display state of a timeline item relative to the
// current stage.
type ItemState string

// Timeline item states.
const (
	ItemPending ItemState = "pending"
	ItemActive  ItemState = "active"
	ItemDone    ItemState = "done"
)

// TimelineEntry pairs an item with its state.
type TimelineEntry struct {
	TimelineItem
	State ItemState `json:"state"`
}

var (
	entryTimeline = []TimelineItem{
		{Key: StageAtGate, Label: "Reading License"},
		{Key: StageOpening, Label: "Gate Opened"},
		{Key: StageMovingIn, Label: "Looking for a Spot"},
		{Key: StageSearching, Label: "Parking"},
		{Key: StageParked, Label: "Parked"},
	}

	exitTimeline = []TimelineItem{
		{Key: StageAtGate, Label: "Detecting License Plate"},
		{Key: StageMovingIn, Label: "Scanning Lot"},
		{Key: StageExited, Label: "Exiting"},
	}
)

// Timeline returns a copy of the ordered items for mode.
func Timeline(mode Mode) []TimelineItem {
	src := entryTimeline
	if mode == ModeExit {
		src = exitTimeline
	}
	out := make([]TimelineItem, len(src))
	copy(out, src)
	return out
}

// indexOf returns the position of stage in the mode's timeline, or -1.
func indexOf(mode Mode, stage Stage) int {
	src := entryTimeline
	if mode == ModeExit {
		src = exitTimeline
	}
	for i, item := range src {
		if item.Key == stage {
			return i
		}
	}
	return -1
}

// IsDone reports whether candidate has already passed given the current
// stage. Both stages are looked up in the same mode's timeline; a stage that
// is not part of it is never done.
func IsDone(mode Mode, current, candidate Stage) bool {
	cur := indexOf(mode, current)
	cand := indexOf(mode, candidate)
	if cur < 0 || cand < 0 {
		return false
	}
	return cand < cur
}

// TimelineStatus returns the mode's timeline annotated with each item's
// state relative to current.
func TimelineStatus(mode Mode, current Stage) []TimelineEntry {
	items := Timeline(mode)
	out := make([]TimelineEntry, len(items))
	for i, item := range items {
		state := ItemPending
		switch {
		case item.Key == current:
			state = ItemActive
		case IsDone(mode, current, item.Key):
			state = ItemDone
		}
		out[i] = TimelineEntry{TimelineItem: item, State: state}
	}
	return out
}
