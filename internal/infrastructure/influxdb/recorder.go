package influxdb

import (
	"time"

	"github.com/nerrad567/intellipark-core/internal/parking"
	"github.com/nerrad567/intellipark-core/internal/scene"
)

// PointWriter accepts telemetry points. *Client implements it.
type PointWriter interface {
	WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, ts time.Time)
}

// Recorder turns lot and scene events into InfluxDB points. It satisfies
// scene.Telemetry.
type Recorder struct {
	w    PointWriter
	site string
}

// NewRecorder returns a Recorder writing to w, tagging every point with
// site when it is non-empty.
func NewRecorder(w PointWriter, site string) *Recorder {
	return &Recorder{w: w, site: site}
}

func (r *Recorder) tags(extra map[string]string) map[string]string {
	if r.site != "" {
		extra["site"] = r.site
	}
	return extra
}

// RecordOccupancy writes the current spot counts.
func (r *Recorder) RecordOccupancy(stats parking.Stats, at time.Time) {
	r.w.WritePointWithTime(
		MeasurementOccupancy,
		r.tags(map[string]string{}),
		map[string]any{
			"total": stats.Total,
			"taken": stats.Taken,
			"empty": stats.Empty,
			"full":  stats.Full(),
		},
		at,
	)
}

// RecordSceneOutcome writes one point per finished trigger.
func (r *Recorder) RecordSceneOutcome(o scene.Outcome) {
	fields := map[string]any{
		"duration_ms": o.Duration.Milliseconds(),
		"count":       1,
	}
	if o.Plate != "" {
		fields["plate"] = o.Plate
	}
	r.w.WritePointWithTime(
		MeasurementSceneOutcome,
		r.tags(map[string]string{
			"scene_id": o.SceneID,
			"mode":     string(o.Mode),
			"result":   string(o.Result),
		}),
		fields,
		o.StartedAt.Add(o.Duration),
	)
}
