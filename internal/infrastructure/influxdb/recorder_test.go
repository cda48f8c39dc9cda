package influxdb

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nerrad567/intellipark-core/internal/gate"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/config"
	"github.com/nerrad567/intellipark-core/internal/parking"
	"github.com/nerrad567/intellipark-core/internal/scene"
)

type point struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]any
	Time        time.Time
}

type mockWriter struct {
	mu     sync.Mutex
	points []point
}

func (m *mockWriter) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = append(m.points, point{measurement, tags, fields, ts})
}

func TestRecordOccupancy(t *testing.T) {
	w := &mockWriter{}
	rec := NewRecorder(w, "depot")
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	rec.RecordOccupancy(parking.Stats{Total: 4, Taken: 4, Empty: 0}, at)

	want := []point{{
		Measurement: MeasurementOccupancy,
		Tags:        map[string]string{"site": "depot"},
		Fields:      map[string]any{"total": 4, "taken": 4, "empty": 0, "full": true},
		Time:        at,
	}}
	if diff := cmp.Diff(want, w.points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordSceneOutcome(t *testing.T) {
	w := &mockWriter{}
	rec := NewRecorder(w, "")
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	rec.RecordSceneOutcome(scene.Outcome{
		SceneID:   "1",
		Mode:      gate.ModeEntry,
		Result:    scene.ResultCompleted,
		Plate:     "ABC123",
		StartedAt: start,
		Duration:  1500 * time.Millisecond,
	})
	rec.RecordSceneOutcome(scene.Outcome{
		SceneID:   "5",
		Mode:      gate.ModeExit,
		Result:    scene.ResultDenied,
		StartedAt: start,
	})

	want := []point{
		{
			Measurement: MeasurementSceneOutcome,
			Tags:        map[string]string{"scene_id": "1", "mode": "entry", "result": "completed"},
			Fields:      map[string]any{"duration_ms": int64(1500), "count": 1, "plate": "ABC123"},
			Time:        start.Add(1500 * time.Millisecond),
		},
		{
			Measurement: MeasurementSceneOutcome,
			Tags:        map[string]string{"scene_id": "5", "mode": "exit", "result": "denied"},
			Fields:      map[string]any{"duration_ms": int64(0), "count": 1},
			Time:        start,
		},
	}
	if diff := cmp.Diff(want, w.points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestConnectDisabled(t *testing.T) {
	c, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("Connect() error = %v, want ErrDisabled", err)
	}
	if c != nil {
		t.Error("Connect() returned non-nil client when disabled")
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.IsConnected() {
		t.Error("nil client reports connected")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil = %v", err)
	}
	c.Flush()
	c.WritePointWithTime("m", nil, map[string]any{"v": 1}, time.Now())
}
