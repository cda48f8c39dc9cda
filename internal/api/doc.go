// Package api implements the HTTP REST API and WebSocket server for
// IntelliPark Core.
//
// This package provides:
//   - REST endpoints for the dashboard, lot occupancy, gate state and the
//     scene catalog
//   - scene triggering (asynchronous, answered with 202 and a trigger id)
//   - proxies for plate lookup and the plate whitelist on the backend
//   - a WebSocket hub pushing gate.stage_changed, lot.updated,
//     scene.denied and scene.completed events
//   - a middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Graceful Degradation
//
// The server runs without MQTT or the local database. Metrics report
// those collaborators as absent; everything else keeps working.
package api
