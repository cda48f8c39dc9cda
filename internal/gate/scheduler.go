package gate

import (
	"sync"
	"time"

	"github.com/nerrad567/intellipark-core/internal/infrastructure/clock"
)

// PlateDetecting is the active plate label shown while a run has no hint.
const PlateDetecting = "Detecting..."

// Logger is the logging interface used by the scheduler.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Snapshot is a point-in-time copy of the scheduler state.
type Snapshot struct {
	Stage   Stage   `json:"stage"`
	Plate   *string `json:"plate"`
	Mode    Mode    `json:"mode"`
	RunID   uint64  `json:"run_id"`
	Pending int     `json:"pending"`

	// Version increases on every state change. Listeners running on
	// different goroutines can use it to discard out-of-order snapshots.
	Version   uint64    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlateLabel returns the active plate or "" when none is set.
func (s Snapshot) PlateLabel() string {
	if s.Plate == nil {
		return ""
	}
	return *s.Plate
}

// Listener receives a snapshot after every stage or plate change.
type Listener func(Snapshot)

// Scheduler drives the gate through the timed stage sequence of a mode.
//
// Thread Safety: all methods are safe for concurrent use. Listeners are
// called without the scheduler lock held, one snapshot at a time and in
// Version order; a snapshot older than one already delivered is skipped.
// A listener must not call Start, ForceStage or Cancel synchronously.
type Scheduler struct {
	mu      sync.Mutex
	clock   clock.Clock
	delays  Delays
	logger  Logger
	stage   Stage
	plate   *string
	mode    Mode
	run     uint64
	version uint64
	updated time.Time
	timers  []clock.Timer
	steps   int
	applied int // index of the last step applied in the current run
	pending int

	listenerMu sync.RWMutex
	listeners  map[uint64]Listener
	nextID     uint64

	dispatchMu sync.Mutex
	delivered  uint64
}

// NewScheduler creates an idle scheduler.
//
// Parameters:
//   - clk: Time source for scheduling (clock.Real{} in production)
//   - delays: Stage durations; negative values are treated as zero
//   - logger: Logger instance (may be nil)
func NewScheduler(clk clock.Clock, delays Delays, logger Logger) *Scheduler {
	if clk == nil {
		clk = clock.Real{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Scheduler{
		clock:     clk,
		delays:    delays,
		logger:    logger,
		stage:     StageIdle,
		mode:      ModeEntry,
		updated:   clk.Now(),
		listeners: make(map[uint64]Listener),
	}
}

// Delays returns the configured stage durations.
func (s *Scheduler) Delays() Delays {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delays
}

// SetDelays replaces the stage durations used by subsequent runs. A run
// already in progress keeps its schedule.
func (s *Scheduler) SetDelays(d Delays) {
	s.mu.Lock()
	s.delays = d
	s.mu.Unlock()
}

// Start begins a new run for mode.
//
// Every pending transition of the previous run is cancelled before the new
// schedule is created, so stages from two runs never interleave. The active
// plate becomes plateHint, or PlateDetecting when the hint is empty. The
// first stage (at offset zero) is delivered through the clock like any
// other transition.
//
// Returns:
//   - uint64: The run id of the new schedule
func (s *Scheduler) Start(mode Mode, plateHint string) uint64 {
	s.mu.Lock()
	s.cancelLocked()
	s.run++
	run := s.run
	s.mode = mode

	label := plateHint
	if label == "" {
		label = PlateDetecting
	}
	s.plate = &label

	steps := buildSchedule(mode, s.delays)
	terminal := mode.Terminal()
	for i, st := range steps {
		var final string
		if st.stage == terminal {
			final = plateHint
		}
		t := s.clock.AfterFunc(st.offset, func() {
			s.advance(run, i, st.stage, final)
		})
		s.timers = append(s.timers, t)
	}
	s.steps = len(steps)
	s.applied = -1
	s.pending = len(steps)
	snap := s.touchLocked()
	s.mu.Unlock()

	s.logger.Debug("gate run started",
		"run_id", run,
		"mode", string(mode),
		"plate", label,
		"steps", len(steps),
	)
	s.notify(snap)
	return run
}

// ForceStage cancels every pending transition and sets the stage
// immediately. The active plate is replaced only when plate is non-nil.
//
// Used to snap to a confirmed outcome ahead of the optimistic schedule or
// to show a denial.
func (s *Scheduler) ForceStage(stage Stage, plate *string) {
	s.mu.Lock()
	s.cancelLocked()
	s.run++
	s.stage = stage
	if plate != nil {
		p := *plate
		s.plate = &p
	}
	snap := s.touchLocked()
	s.mu.Unlock()

	s.logger.Debug("gate stage forced",
		"run_id", snap.RunID,
		"stage", string(stage),
		"plate", snap.PlateLabel(),
	)
	s.notify(snap)
}

// Cancel stops every pending transition and keeps the current stage.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	had := s.pending
	s.cancelLocked()
	s.run++
	s.mu.Unlock()

	if had > 0 {
		s.logger.Debug("gate run cancelled", "pending", had)
	}
}

// Snapshot returns the current state.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (s *Scheduler) Subscribe(fn Listener) (unsubscribe func()) {
	s.listenerMu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

// advance is the timer callback for step idx of run. Timers with equal
// offsets may fire in any order, so a step at or before the last applied
// one is dropped; the run only moves forward.
func (s *Scheduler) advance(run uint64, idx int, stage Stage, finalPlate string) {
	s.mu.Lock()
	if run != s.run || idx <= s.applied {
		// Cancelled, or overtaken by a later step of the same run.
		s.mu.Unlock()
		return
	}
	s.applied = idx
	s.stage = stage
	if finalPlate != "" {
		p := finalPlate
		s.plate = &p
	}
	s.pending = s.steps - idx - 1
	snap := s.touchLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// cancelLocked stops all timers of the current run. Caller holds s.mu.
func (s *Scheduler) cancelLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.steps = 0
	s.applied = -1
	s.pending = 0
}

// touchLocked records a state change and returns the new snapshot.
func (s *Scheduler) touchLocked() Snapshot {
	s.version++
	s.updated = s.clock.Now()
	return s.snapshotLocked()
}

func (s *Scheduler) snapshotLocked() Snapshot {
	var plate *string
	if s.plate != nil {
		p := *s.plate
		plate = &p
	}
	return Snapshot{
		Stage:     s.stage,
		Plate:     plate,
		Mode:      s.mode,
		RunID:     s.run,
		Pending:   s.pending,
		Version:   s.version,
		UpdatedAt: s.updated,
	}
}

// notify delivers snap to every listener unless a newer snapshot has
// already been delivered.
func (s *Scheduler) notify(snap Snapshot) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	if snap.Version <= s.delivered {
		return
	}
	s.delivered = snap.Version

	s.listenerMu.RLock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}
