// Package tui renders a live terminal view of the gate and the lot.
//
// The model redraws whenever the gate scheduler or the orchestrator reports
// a change, through a Notifier registered as both a gate listener and a
// scene broadcaster. Number keys trigger the matching scene, r refreshes
// sessions and q quits.
package tui
