package scene

import (
	"time"

	"github.com/nerrad567/intellipark-core/internal/gate"
	"github.com/nerrad567/intellipark-core/internal/parking"
)

// LotView is the derived occupancy of the lot.
type LotView struct {
	Spots        []parking.Spot `json:"spots"`
	Stats        parking.Stats  `json:"stats"`
	Full         bool           `json:"full"`
	CacheVersion uint64         `json:"cache_version"`
	Source       parking.Source `json:"source"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// GateView is the gate state with its timeline.
type GateView struct {
	gate.Snapshot
	Timeline []gate.TimelineEntry `json:"timeline"`
}

// Dashboard is everything a status screen needs in one read.
type Dashboard struct {
	Lot         LotView     `json:"lot"`
	Gate        GateView    `json:"gate"`
	SceneID     string      `json:"scene_id,omitempty"`
	SceneLabel  string      `json:"scene_label,omitempty"`
	Media       string      `json:"media,omitempty"`
	Denial      *DenialInfo `json:"denial,omitempty"`
	Advisory    string      `json:"advisory,omitempty"`
	LastRefresh *time.Time  `json:"last_refresh,omitempty"`
	LastTrigger *Outcome    `json:"last_trigger,omitempty"`
}

// Lot derives the current spot grid and statistics from the cache.
func (o *Orchestrator) Lot() LotView {
	return o.lotView()
}

func (o *Orchestrator) lotView() LotView {
	st := o.cache.State()
	spots := parking.DeriveSpots(o.totalSpots, st.Sessions)
	stats := parking.DeriveStats(spots)
	return LotView{
		Spots:        spots,
		Stats:        stats,
		Full:         stats.Full(),
		CacheVersion: st.Version,
		Source:       st.Source,
		UpdatedAt:    st.UpdatedAt,
	}
}

// Gate returns the gate snapshot with the timeline of its current mode.
func (o *Orchestrator) Gate() GateView {
	snap := o.gate.Snapshot()
	return GateView{
		Snapshot: snap,
		Timeline: gate.TimelineStatus(snap.Mode, snap.Stage),
	}
}

// Status assembles the dashboard view.
func (o *Orchestrator) Status() Dashboard {
	d := Dashboard{
		Lot:  o.lotView(),
		Gate: o.Gate(),
	}

	o.mu.RLock()
	d.SceneID = o.sceneID
	d.Advisory = o.advisory
	if o.denial != nil {
		cp := *o.denial
		d.Denial = &cp
	}
	if !o.lastRefresh.IsZero() {
		t := o.lastRefresh
		d.LastRefresh = &t
	}
	if o.last != nil {
		cp := *o.last
		d.LastTrigger = &cp
	}
	o.mu.RUnlock()

	if d.SceneID != "" {
		if e, ok := o.catalog.Get(d.SceneID); ok {
			d.SceneLabel = e.Label
			d.Media = PickImage(e.Scene, d.Gate.Stage, d.Gate.Mode)
		} else {
			d.SceneLabel = defaultLabel(d.SceneID, d.Gate.Mode)
		}
	}
	return d
}

// Denial returns the recorded denial, if any.
func (o *Orchestrator) Denial() *DenialInfo {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.denial == nil {
		return nil
	}
	cp := *o.denial
	return &cp
}

// Advisory returns the current soft warning, or "".
func (o *Orchestrator) Advisory() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.advisory
}

// SceneID returns the id of the most recently triggered scene, or "".
func (o *Orchestrator) SceneID() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.sceneID
}
