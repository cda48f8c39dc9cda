package api

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/intellipark-core/internal/gate"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/config"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/logging"
	"github.com/nerrad567/intellipark-core/internal/scene"
)

// Client operations.
const (
	OpSubscribe   = "subscribe"
	OpUnsubscribe = "unsubscribe"
	OpPing        = "ping"
)

// Server frame kinds.
const (
	FrameEvent = "event"
	FrameAck   = "ack"
	FramePong  = "pong"
	FrameError = "error"
)

// ChannelGateStageChanged carries a scene.GateView on every transition.
const ChannelGateStageChanged = "gate.stage_changed"

// peerQueueSize is the per-peer outbound frame buffer.
const peerQueueSize = 256

// Channels lists every channel a peer may subscribe to.
var Channels = []string{
	ChannelGateStageChanged,
	scene.ChannelLotUpdated,
	scene.ChannelSceneDenied,
	scene.ChannelSceneCompleted,
}

// Request is a client-to-server message.
type Request struct {
	Op       string   `json:"op"`
	ID       string   `json:"id,omitempty"`
	Channels []string `json:"channels,omitempty"`
}

// Frame is a server-to-client message. Seq increases across every event
// the hub sends, so a dashboard can spot gaps after a dropped frame.
type Frame struct {
	Kind    string    `json:"kind"`
	ID      string    `json:"id,omitempty"`
	Channel string    `json:"channel,omitempty"`
	Seq     uint64    `json:"seq,omitempty"`
	At      time.Time `json:"at"`
	Data    any       `json:"data,omitempty"`
}

// Ack answers a subscribe or unsubscribe request.
type Ack struct {
	Subscribed   []string `json:"subscribed,omitempty"`
	Unsubscribed []string `json:"unsubscribed,omitempty"`
	Unknown      []string `json:"unknown,omitempty"`
}

// currentFunc returns the present value of a channel, sent to a peer right
// after it subscribes. ok is false for event-only channels.
type currentFunc func(channel string) (data any, ok bool)

// Hub fans events out to WebSocket peers. It implements scene.Broadcaster,
// and OnGate is a gate.Listener.
type Hub struct {
	cfg    config.WebSocketConfig
	logger *logging.Logger

	mu    sync.RWMutex
	peers map[*peer]struct{}

	seq     atomic.Uint64
	dropped atomic.Uint64
}

// peer is one connected WebSocket client.
type peer struct {
	hub     *Hub
	conn    *websocket.Conn
	current currentFunc

	mu       sync.Mutex
	out      chan []byte
	closed   bool
	channels map[string]struct{}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are checked by the CORS middleware.
	CheckOrigin: func(*http.Request) bool { return true },
}

// NewHub creates an empty hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:    cfg,
		logger: logger,
		peers:  make(map[*peer]struct{}),
	}
}

// Run blocks until ctx is cancelled, then disconnects every peer.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	peers := h.peers
	h.peers = make(map[*peer]struct{})
	h.mu.Unlock()

	for p := range peers {
		p.shutdown()
		if p.conn != nil {
			p.conn.Close()
		}
	}
}

func (h *Hub) add(p *peer) {
	h.mu.Lock()
	h.peers[p] = struct{}{}
	n := len(h.peers)
	h.mu.Unlock()
	h.logger.Debug("websocket peer connected", "peers", n)
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	delete(h.peers, p)
	n := len(h.peers)
	h.mu.Unlock()
	p.shutdown()
	h.logger.Debug("websocket peer disconnected", "peers", n)
}

// Broadcast sends data on channel to every subscribed peer. Peers whose
// queue is full miss the frame.
func (h *Hub) Broadcast(channel string, data any) {
	raw, err := json.Marshal(h.event(channel, data))
	if err != nil {
		h.logger.Error("encoding websocket event", "channel", channel, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		if p.subscribed(channel) {
			targets = append(targets, p)
		}
	}
	h.mu.RUnlock()

	for _, p := range targets {
		if !p.push(raw) {
			h.dropped.Add(1)
		}
	}
}

// OnGate broadcasts a gate transition with its timeline.
func (h *Hub) OnGate(s gate.Snapshot) {
	h.Broadcast(ChannelGateStageChanged, scene.GateView{
		Snapshot: s,
		Timeline: gate.TimelineStatus(s.Mode, s.Stage),
	})
}

// ClientCount returns the number of connected peers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Dropped returns how many frames were not delivered because a peer queue
// was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Hub) event(channel string, data any) Frame {
	return Frame{
		Kind:    FrameEvent,
		Channel: channel,
		Seq:     h.seq.Add(1),
		At:      time.Now().UTC(),
		Data:    data,
	}
}

// currentState backs the on-subscribe frame for stateful channels.
func (s *Server) currentState(channel string) (any, bool) {
	switch channel {
	case ChannelGateStageChanged:
		return s.scenes.Gate(), true
	case scene.ChannelLotUpdated:
		return s.scenes.Lot(), true
	}
	return nil, false
}

// handleWebSocket upgrades the request and attaches a peer to the hub.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavail, "websocket hub not running")
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	p := &peer{
		hub:      s.hub,
		conn:     conn,
		current:  s.currentState,
		out:      make(chan []byte, peerQueueSize),
		channels: make(map[string]struct{}),
	}
	s.hub.add(p)

	keep := newKeepalive(s.wsCfg)
	go p.writeLoop(keep)
	go p.readLoop(keep, int64(s.wsCfg.MaxMessageSize))
}

// keepalive holds the ping schedule derived from configuration.
type keepalive struct {
	ping     time.Duration
	pongWait time.Duration
}

func newKeepalive(cfg config.WebSocketConfig) keepalive {
	k := keepalive{
		ping:     time.Duration(cfg.PingInterval) * time.Second,
		pongWait: time.Duration(cfg.PongTimeout) * time.Second,
	}
	if k.ping <= 0 {
		k.ping = 30 * time.Second
	}
	if k.pongWait <= 0 {
		k.pongWait = 10 * time.Second
	}
	return k
}

// readDeadline is how long a peer may stay silent, pongs included.
func (k keepalive) readDeadline() time.Time {
	return time.Now().Add(k.ping + k.pongWait)
}

func (p *peer) readLoop(k keepalive, limit int64) {
	defer func() {
		p.hub.remove(p)
		p.conn.Close()
	}()

	if limit > 0 {
		p.conn.SetReadLimit(limit)
	}
	_ = p.conn.SetReadDeadline(k.readDeadline())
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(k.readDeadline())
	})

	for {
		_, raw, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.hub.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		_ = p.conn.SetReadDeadline(k.readDeadline())
		p.handle(raw)
	}
}

func (p *peer) writeLoop(k keepalive) {
	ticker := time.NewTicker(k.ping)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-p.out:
			_ = p.conn.SetWriteDeadline(time.Now().Add(k.pongWait))
			if !ok {
				_ = p.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(k.pongWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (p *peer) handle(raw []byte) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		p.reply(Frame{Kind: FrameError, Data: errorBody("invalid JSON message")})
		return
	}

	switch req.Op {
	case OpSubscribe:
		ack := p.subscribe(req.Channels)
		p.reply(Frame{Kind: FrameAck, ID: req.ID, Data: ack})
		p.sendCurrent(ack.Subscribed)
	case OpUnsubscribe:
		p.reply(Frame{Kind: FrameAck, ID: req.ID, Data: p.unsubscribe(req.Channels)})
	case OpPing:
		p.reply(Frame{Kind: FramePong, ID: req.ID})
	default:
		p.reply(Frame{Kind: FrameError, ID: req.ID, Data: errorBody("unknown op: " + req.Op)})
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"message": msg}
}

func (p *peer) subscribe(channels []string) Ack {
	var ack Ack
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range channels {
		if !slices.Contains(Channels, ch) {
			ack.Unknown = append(ack.Unknown, ch)
			continue
		}
		p.channels[ch] = struct{}{}
		ack.Subscribed = append(ack.Subscribed, ch)
	}
	return ack
}

func (p *peer) unsubscribe(channels []string) Ack {
	var ack Ack
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range channels {
		if _, ok := p.channels[ch]; ok {
			delete(p.channels, ch)
			ack.Unsubscribed = append(ack.Unsubscribed, ch)
		}
	}
	return ack
}

// sendCurrent pushes the present state of each stateful channel so a
// dashboard joining mid-run renders without waiting for the next change.
func (p *peer) sendCurrent(channels []string) {
	if p.current == nil {
		return
	}
	for _, ch := range channels {
		if data, ok := p.current(ch); ok {
			p.reply(p.hub.event(ch, data))
		}
	}
}

func (p *peer) subscribed(channel string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.channels[channel]
	return ok
}

func (p *peer) reply(f Frame) {
	if f.At.IsZero() {
		f.At = time.Now().UTC()
	}
	raw, err := json.Marshal(f)
	if err != nil {
		p.hub.logger.Error("encoding websocket frame", "kind", f.Kind, "error", err)
		return
	}
	p.push(raw)
}

// push queues raw without blocking. It reports false when the queue is
// full or the peer has shut down.
func (p *peer) push(raw []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	select {
	case p.out <- raw:
		return true
	default:
		return false
	}
}

// shutdown closes the outbound queue once; writeLoop then sends a close
// frame and exits.
func (p *peer) shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.out)
	}
}
