package tui

import "github.com/nerrad567/intellipark-core/internal/gate"

// Notifier coalesces change signals for the model. Register OnGate with
// the scheduler and the Notifier itself as an orchestrator broadcaster.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier creates a Notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// OnGate signals a gate transition.
func (n *Notifier) OnGate(gate.Snapshot) {
	n.signal()
}

// Broadcast signals a lot or scene event.
func (n *Notifier) Broadcast(string, any) {
	n.signal()
}

func (n *Notifier) signal() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// C returns the signal channel.
func (n *Notifier) C() <-chan struct{} {
	return n.ch
}
