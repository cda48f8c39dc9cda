// Package influxdb records IntelliPark telemetry in InfluxDB v2.
//
// Two measurements are written:
//
//   - lot_occupancy: total/taken/empty spot counts and a full flag, written
//     whenever the session cache changes
//   - scene_outcome: one point per finished trigger, tagged by scene, mode
//     and result, with the wall-clock duration from trigger to outcome
//
// Writes are non-blocking and batched by the InfluxDB client. Async write
// failures are delivered to the callback set with SetOnError.
//
// Usage:
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	rec := influxdb.NewRecorder(client, cfg.Site.ID)
//	orchestrator, err := scene.New(scene.Deps{Telemetry: rec, ...})
package influxdb
