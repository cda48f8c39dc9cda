package gatebus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nerrad567/intellipark-core/internal/gate"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/intellipark-core/internal/scene"
)

const queueSize = 64

// Client is the subset of the MQTT client the bus uses.
type Client interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Triggerer starts scenes. *scene.Orchestrator implements it.
type Triggerer interface {
	Trigger(ctx context.Context, id string) (string, error)
	SceneID() string
}

// Logger is the logging interface used by the bus.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// GateState is published on the gate state topic.
type GateState struct {
	Stage   gate.Stage `json:"stage"`
	Plate   string     `json:"plate"`
	Mode    gate.Mode  `json:"mode"`
	SceneID string     `json:"scene_id,omitempty"`
	RunID   uint64     `json:"run_id"`
}

// LotStats is published on the lot stats topic.
type LotStats struct {
	Total int  `json:"total"`
	Taken int  `json:"taken"`
	Empty int  `json:"empty"`
	Full  bool `json:"full"`
}

// SceneEvent is published on the scene events topic.
type SceneEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type message struct {
	topic    string
	payload  []byte
	retained bool
}

// Bus mirrors gate and lot state to MQTT and accepts scene commands.
type Bus struct {
	client Client
	topics mqtt.Topics
	qos    byte
	scenes Triggerer
	logger Logger

	queue chan message

	mu      sync.Mutex
	dropped int
}

// New creates a Bus. Call Run to start publishing.
func New(client Client, topics mqtt.Topics, qos byte, scenes Triggerer, logger Logger) *Bus {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Bus{
		client: client,
		topics: topics,
		qos:    qos,
		scenes: scenes,
		logger: logger,
		queue:  make(chan message, queueSize),
	}
}

// Subscribe registers the scene command handler. ctx bounds the triggers
// it starts.
func (b *Bus) Subscribe(ctx context.Context) error {
	topic := b.topics.AllSceneCommands()
	if err := b.client.Subscribe(topic, b.qos, func(t string, _ []byte) error {
		return b.handleCommand(ctx, t)
	}); err != nil {
		return fmt.Errorf("subscribing to scene commands: %w", err)
	}
	b.logger.Info("listening for scene commands", "topic", topic)
	return nil
}

func (b *Bus) handleCommand(ctx context.Context, topic string) error {
	id, ok := b.topics.ParseSceneCommand(topic)
	if !ok {
		return fmt.Errorf("unexpected command topic %q", topic)
	}
	triggerID, err := b.scenes.Trigger(ctx, id)
	if err != nil {
		return fmt.Errorf("triggering scene %s: %w", id, err)
	}
	b.logger.Info("scene triggered over mqtt", "scene_id", id, "trigger_id", triggerID)
	return nil
}

// OnGate is a gate.Listener that mirrors the snapshot to MQTT.
func (b *Bus) OnGate(s gate.Snapshot) {
	state := GateState{
		Stage: s.Stage,
		Plate: s.PlateLabel(),
		Mode:  s.Mode,
		RunID: s.RunID,
	}
	if b.scenes != nil {
		state.SceneID = b.scenes.SceneID()
	}
	b.enqueue(b.topics.GateState(), state, true)
}

// Broadcast implements scene.Broadcaster.
func (b *Bus) Broadcast(channel string, payload any) {
	switch channel {
	case scene.ChannelLotUpdated:
		lot, ok := payload.(scene.LotView)
		if !ok {
			return
		}
		b.enqueue(b.topics.LotStats(), LotStats{
			Total: lot.Stats.Total,
			Taken: lot.Stats.Taken,
			Empty: lot.Stats.Empty,
			Full:  lot.Full,
		}, true)
	case scene.ChannelSceneDenied, scene.ChannelSceneCompleted:
		b.enqueue(b.topics.SceneEvents(), SceneEvent{Type: channel, Payload: payload}, false)
	}
}

func (b *Bus) enqueue(topic string, v any, retained bool) {
	data, err := json.Marshal(v)
	if err != nil {
		b.logger.Warn("encoding mqtt payload failed", "topic", topic, "error", err)
		return
	}
	select {
	case b.queue <- message{topic: topic, payload: data, retained: retained}:
	default:
		b.mu.Lock()
		b.dropped++
		n := b.dropped
		b.mu.Unlock()
		b.logger.Warn("mqtt publish queue full, dropping message", "topic", topic, "dropped_total", n)
	}
}

// Dropped returns how many messages were discarded because the queue was
// full.
func (b *Bus) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Run publishes queued messages until ctx is cancelled.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-b.queue:
			if err := b.client.Publish(m.topic, m.payload, b.qos, m.retained); err != nil {
				b.logger.Warn("mqtt publish failed", "topic", m.topic, "error", err)
				continue
			}
			b.logger.Debug("mqtt published", "topic", m.topic)
		}
	}
}
