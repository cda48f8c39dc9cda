// Package gatebus connects the gate and lot to MQTT field devices.
//
// Outbound, it mirrors every gate transition to the retained gate state
// topic and every occupancy change to the retained lot stats topic, so a
// display that connects late still sees the current state. Scene outcomes
// and denials go to the scene events topic.
//
// Inbound, it listens on the scene command topics and triggers the scene
// named by the last topic level. The payload is ignored, which lets a plain
// push button with an MQTT relay drive a scene.
//
// Publishing happens on a dedicated goroutine started by Run. Gate
// listeners and broadcasts only enqueue, so a slow broker never holds up a
// stage transition.
package gatebus
