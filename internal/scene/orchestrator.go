package scene

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/intellipark-core/internal/backend"
	"github.com/nerrad567/intellipark-core/internal/gate"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/clock"
	"github.com/nerrad567/intellipark-core/internal/parking"
)

// Labels used when the backend response carries no plate.
const (
	LabelAccessDenied = "Access Denied"
	LabelParked       = "Parked"
	LabelExited       = "Exited"
)

// Advisory messages shown while the cached layout may be stale.
const (
	AdvisoryRefreshFailed = "Live data unavailable. Showing latest cached layout."
	AdvisorySceneFailed   = "Scene request failed. Showing latest cached layout."
)

// Broadcast channels.
const (
	ChannelLotUpdated     = "lot.updated"
	ChannelSceneDenied    = "scene.denied"
	ChannelSceneCompleted = "scene.completed"
)

// Backend is the subset of the backend client the orchestrator needs.
type Backend interface {
	TriggerScene(ctx context.Context, id string) (backend.SceneResult, error)
	Sessions(ctx context.Context) ([]parking.Session, error)
}

// Gate is the subset of the gate scheduler the orchestrator drives.
type Gate interface {
	Start(mode gate.Mode, plateHint string) uint64
	ForceStage(stage gate.Stage, plate *string)
	Snapshot() gate.Snapshot
}

// Broadcaster receives lot and scene events (WebSocket hub, MQTT bus).
type Broadcaster interface {
	Broadcast(channel string, payload any)
}

// Telemetry records occupancy and scene outcomes.
type Telemetry interface {
	RecordOccupancy(stats parking.Stats, at time.Time)
	RecordSceneOutcome(o Outcome)
}

// Logger is the logging interface used by the orchestrator.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Result is the final state of a trigger.
type Result string

// Trigger results.
const (
	ResultPending   Result = "pending"
	ResultCompleted Result = "completed"
	ResultDenied    Result = "denied"
	ResultFailed    Result = "failed"
	ResultStale     Result = "stale"
)

// Outcome describes one trigger once the backend has answered.
type Outcome struct {
	TriggerID string        `json:"trigger_id"`
	SceneID   string        `json:"scene_id"`
	Mode      gate.Mode     `json:"mode"`
	Result    Result        `json:"result"`
	Plate     string        `json:"plate,omitempty"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// DenialInfo is the denial shown to the operator.
type DenialInfo struct {
	SceneID string    `json:"scene_id"`
	Plate   string    `json:"plate,omitempty"`
	Message string    `json:"message"`
	Error   string    `json:"error"`
	At      time.Time `json:"at"`
}

// Deps holds the orchestrator collaborators.
type Deps struct {
	Catalog    *Catalog
	Scheduler  Gate
	Backend    Backend
	Cache      *parking.SessionCache
	TotalSpots int

	// Optional.
	Store        parking.SnapshotStore
	Broadcasters []Broadcaster
	Telemetry    Telemetry
	Clock        clock.Clock
	Logger       Logger
}

// Orchestrator coordinates scene triggers, the gate and the session cache.
type Orchestrator struct {
	catalog    *Catalog
	gate       Gate
	backend    Backend
	cache      *parking.SessionCache
	totalSpots int
	store      parking.SnapshotStore
	outs       []Broadcaster
	telemetry  Telemetry
	clock      clock.Clock
	logger     Logger

	// applyMu serializes gate transitions made by the orchestrator so a
	// response check and its ForceStage cannot interleave with a new Start.
	applyMu sync.Mutex

	mu          sync.RWMutex
	seq         uint64
	sceneID     string
	mode        gate.Mode
	denial      *DenialInfo
	advisory    string
	lastRefresh time.Time
	last        *Outcome

	wg sync.WaitGroup
}

// New creates an Orchestrator.
//
// Returns:
//   - *Orchestrator: Ready orchestrator
//   - error: ErrMissingDependency if Catalog, Scheduler, Backend or Cache is nil
func New(d Deps) (*Orchestrator, error) {
	switch {
	case d.Catalog == nil:
		return nil, fmt.Errorf("%w: catalog", ErrMissingDependency)
	case d.Scheduler == nil:
		return nil, fmt.Errorf("%w: scheduler", ErrMissingDependency)
	case d.Backend == nil:
		return nil, fmt.Errorf("%w: backend", ErrMissingDependency)
	case d.Cache == nil:
		return nil, fmt.Errorf("%w: cache", ErrMissingDependency)
	}
	if d.Clock == nil {
		d.Clock = clock.Real{}
	}
	if d.Logger == nil {
		d.Logger = noopLogger{}
	}
	return &Orchestrator{
		catalog:    d.Catalog,
		gate:       d.Scheduler,
		backend:    d.Backend,
		cache:      d.Cache,
		totalSpots: d.TotalSpots,
		store:      d.Store,
		outs:       d.Broadcasters,
		telemetry:  d.Telemetry,
		clock:      d.Clock,
		logger:     d.Logger,
		mode:       gate.ModeEntry,
	}, nil
}

// Catalog returns the scene catalog.
func (o *Orchestrator) Catalog() *Catalog {
	return o.catalog
}

// AddBroadcaster registers an additional event sink. Call before triggers
// start.
func (o *Orchestrator) AddBroadcaster(b Broadcaster) {
	o.mu.Lock()
	o.outs = append(o.outs, b)
	o.mu.Unlock()
}

// pending identifies a trigger in flight.
type pending struct {
	id      string
	seq     uint64
	sceneID string
	mode    gate.Mode
	started time.Time
}

// Trigger starts scene id and returns immediately with the trigger id.
// The backend call runs in the background and is not bound to ctx's
// cancellation, so a trigger from an HTTP request completes after the
// request returns.
//
// A scene missing from the catalog runs as an entry and is still sent to
// the backend.
//
// Returns:
//   - string: Trigger id
//   - error: ErrInvalidSceneID if id is blank
func (o *Orchestrator) Trigger(ctx context.Context, id string) (string, error) {
	p, err := o.begin(id)
	if err != nil {
		return "", err
	}
	bg := context.WithoutCancel(ctx)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.reconcile(bg, p)
	}()
	return p.id, nil
}

// TriggerSync starts scene id and waits until the backend response has been
// applied.
//
// Returns:
//   - Outcome: What happened to the trigger
//   - error: ErrInvalidSceneID, ErrSuperseded, or the wrapped backend error
//     on transport or payload failure
func (o *Orchestrator) TriggerSync(ctx context.Context, id string) (Outcome, error) {
	p, err := o.begin(id)
	if err != nil {
		return Outcome{}, err
	}
	out, err := o.reconcile(ctx, p)
	return out, err
}

// Wait blocks until every background trigger has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) begin(id string) (pending, error) {
	if strings.TrimSpace(id) == "" {
		return pending{}, ErrInvalidSceneID
	}
	mode := gate.ModeEntry
	if entry, ok := o.catalog.Get(id); ok {
		mode = entry.Scene.Mode()
	} else {
		o.logger.Warn("scene not in catalog, running as entry", "scene_id", id)
	}

	o.applyMu.Lock()
	defer o.applyMu.Unlock()

	o.mu.Lock()
	o.seq++
	p := pending{
		id:      uuid.NewString(),
		seq:     o.seq,
		sceneID: id,
		mode:    mode,
		started: o.clock.Now(),
	}
	o.sceneID = id
	o.mode = mode
	o.denial = nil
	o.advisory = ""
	o.last = &Outcome{
		TriggerID: p.id,
		SceneID:   id,
		Mode:      mode,
		Result:    ResultPending,
		StartedAt: p.started,
	}
	o.mu.Unlock()

	o.gate.Start(mode, "")
	o.logger.Info("scene triggered",
		"trigger_id", p.id,
		"scene_id", id,
		"mode", string(mode),
	)
	return p, nil
}

// reconcile calls the backend for p and applies the response.
func (o *Orchestrator) reconcile(ctx context.Context, p pending) (Outcome, error) {
	res, callErr := o.backend.TriggerScene(ctx, p.sceneID)

	out := Outcome{
		TriggerID: p.id,
		SceneID:   p.sceneID,
		Mode:      p.mode,
		StartedAt: p.started,
	}

	o.applyMu.Lock()
	o.mu.RLock()
	current := o.seq == p.seq
	o.mu.RUnlock()

	var (
		lot     *LotView
		denial  *DenialInfo
		retErr  error
		persist []parking.Session
	)
	switch {
	case !current:
		out.Result = ResultStale
		retErr = ErrSuperseded
		o.logger.Info("dropping response from superseded trigger",
			"trigger_id", p.id,
			"scene_id", p.sceneID,
		)

	case callErr != nil:
		// Animation keeps running; cached sessions stay as they are.
		out.Result = ResultFailed
		out.Error = callErr.Error()
		retErr = callErr
		o.mu.Lock()
		o.advisory = AdvisorySceneFailed
		o.mu.Unlock()
		o.logger.Warn("scene request failed",
			"trigger_id", p.id,
			"scene_id", p.sceneID,
			"error", callErr,
		)

	case res.Denial != nil:
		label := res.Denial.Plate
		if label == "" {
			label = LabelAccessDenied
		}
		denial = &DenialInfo{
			SceneID: p.sceneID,
			Plate:   res.Denial.Plate,
			Message: res.Denial.Text(),
			Error:   res.Denial.Error,
			At:      o.clock.Now(),
		}
		out.Result = ResultDenied
		out.Plate = res.Denial.Plate
		o.mu.Lock()
		o.denial = denial
		o.mu.Unlock()
		o.gate.ForceStage(gate.StageAtGate, &label)
		o.logger.Info("scene denied",
			"trigger_id", p.id,
			"scene_id", p.sceneID,
			"plate", res.Denial.Plate,
			"reason", denial.Message,
		)

	default:
		now := o.clock.Now()
		o.cache.Replace(res.Sessions, parking.SourceScene, now)
		o.mu.Lock()
		o.advisory = ""
		o.mu.Unlock()

		stage, label := terminalFor(p.mode, res.Sessions)
		o.gate.ForceStage(stage, &label)

		out.Result = ResultCompleted
		out.Plate = label
		v := o.lotView()
		lot = &v
		persist = res.Sessions
		o.logger.Info("scene completed",
			"trigger_id", p.id,
			"scene_id", p.sceneID,
			"stage", string(stage),
			"plate", label,
			"sessions", len(res.Sessions),
		)
	}

	out.Duration = o.clock.Now().Sub(p.started)
	if current {
		o.mu.Lock()
		cp := out
		o.last = &cp
		o.mu.Unlock()
	}
	if persist != nil {
		o.persist(ctx, persist, parking.SourceScene)
	}
	o.applyMu.Unlock()

	if lot != nil {
		o.broadcast(ChannelLotUpdated, *lot)
		o.recordOccupancy(lot.Stats)
	}
	if denial != nil {
		o.broadcast(ChannelSceneDenied, *denial)
	}
	if current {
		o.broadcast(ChannelSceneCompleted, out)
	}
	if o.telemetry != nil {
		o.telemetry.RecordSceneOutcome(out)
	}
	return out, retErr
}

// terminalFor picks the confirmed stage and label for a successful
// response.
func terminalFor(mode gate.Mode, sessions []parking.Session) (gate.Stage, string) {
	if mode == gate.ModeExit {
		return gate.StageExited, LabelExited
	}
	if s, ok := parking.LatestActive(sessions); ok && s.Plate != "" {
		return gate.StageParked, s.Plate
	}
	return gate.StageParked, LabelParked
}

// Refresh reloads the session list from the backend. On failure the cache
// is kept and the advisory is set. A list fetched while a scene response
// replaced the cache is discarded as older.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	before := o.cache.Version()
	sessions, err := o.backend.Sessions(ctx)
	if err != nil {
		o.mu.Lock()
		o.advisory = AdvisoryRefreshFailed
		o.mu.Unlock()
		o.logger.Warn("session refresh failed", "error", err)
		return err
	}

	o.applyMu.Lock()
	if o.cache.Version() != before {
		o.applyMu.Unlock()
		o.logger.Debug("discarding refresh older than cached sessions")
		return nil
	}
	now := o.clock.Now()
	o.cache.Replace(sessions, parking.SourceRefresh, now)
	o.mu.Lock()
	o.advisory = ""
	o.lastRefresh = now
	o.mu.Unlock()
	lot := o.lotView()
	o.persist(ctx, sessions, parking.SourceRefresh)
	o.applyMu.Unlock()

	o.broadcast(ChannelLotUpdated, lot)
	o.recordOccupancy(lot.Stats)
	return nil
}

// RunRefresher calls Refresh immediately and then every interval until ctx
// is cancelled. A non-positive interval performs only the initial refresh.
func (o *Orchestrator) RunRefresher(ctx context.Context, interval time.Duration) {
	if err := o.Refresh(ctx); err != nil && ctx.Err() != nil {
		return
	}
	if interval <= 0 {
		return
	}
	tick := make(chan struct{}, 1)
	arm := func() clock.Timer {
		return o.clock.AfterFunc(interval, func() {
			select {
			case tick <- struct{}{}:
			default:
			}
		})
	}
	timer := arm()
	defer func() { timer.Stop() }()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			_ = o.Refresh(ctx) //nolint:errcheck // failure is recorded as advisory
			timer = arm()
		}
	}
}

// Restore seeds the cache from the snapshot store. It is a no-op when the
// store is absent, empty, or the cache already holds data.
func (o *Orchestrator) Restore(ctx context.Context) error {
	if o.store == nil {
		return nil
	}
	st, err := o.store.Load(ctx)
	if errors.Is(err, parking.ErrSnapshotNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading session snapshot: %w", err)
	}
	o.applyMu.Lock()
	defer o.applyMu.Unlock()
	if o.cache.Version() != 0 {
		return nil
	}
	o.cache.Replace(st.Sessions, parking.SourceSnapshot, st.UpdatedAt)
	o.logger.Info("restored session snapshot", "sessions", len(st.Sessions), "saved_at", st.UpdatedAt)
	return nil
}

// persist saves the snapshot. Callers hold applyMu so saves land in the
// same order as cache replacements.
func (o *Orchestrator) persist(ctx context.Context, sessions []parking.Session, src parking.Source) {
	if o.store == nil {
		return
	}
	if err := o.store.Save(ctx, sessions, src, o.clock.Now()); err != nil {
		o.logger.Warn("saving session snapshot failed", "error", err)
	}
}

func (o *Orchestrator) broadcast(channel string, payload any) {
	o.mu.RLock()
	outs := append([]Broadcaster(nil), o.outs...)
	o.mu.RUnlock()
	for _, b := range outs {
		b.Broadcast(channel, payload)
	}
}

func (o *Orchestrator) recordOccupancy(stats parking.Stats) {
	if o.telemetry != nil {
		o.telemetry.RecordOccupancy(stats, o.clock.Now())
	}
}
