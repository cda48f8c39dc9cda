package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/intellipark-core/internal/backend"
	"github.com/nerrad567/intellipark-core/internal/gate"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/config"
	"github.com/nerrad567/intellipark-core/internal/infrastructure/logging"
	"github.com/nerrad567/intellipark-core/internal/parking"
	"github.com/nerrad567/intellipark-core/internal/scene"
)

// ─── Mock Dependencies ─────────────────────────────────────────────

type mockScenes struct {
	mu         sync.Mutex
	catalog    *scene.Catalog
	triggered  []string
	refreshErr error
	refreshes  int
	lot        scene.LotView
	gateView   scene.GateView
}

func (m *mockScenes) Trigger(_ context.Context, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", scene.ErrInvalidSceneID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggered = append(m.triggered, id)
	return "trigger-1", nil
}

func (m *mockScenes) Refresh(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
	return m.refreshErr
}

func (m *mockScenes) Status() scene.Dashboard {
	return scene.Dashboard{Lot: m.Lot(), Gate: m.Gate(), Advisory: scene.AdvisoryRefreshFailed}
}

func (m *mockScenes) Lot() scene.LotView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lot
}

func (m *mockScenes) Gate() scene.GateView {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gateView
}

func (m *mockScenes) Catalog() *scene.Catalog {
	return m.catalog
}

type mockBackend struct {
	mu       sync.Mutex
	sessions map[string]*parking.Session
	allowed  []backend.AllowedCar
	err      error
}

func (m *mockBackend) LatestForPlate(_ context.Context, plate string) (*parking.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sessions[parking.NormalizePlate(plate)], nil
}

func (m *mockBackend) AllowedList(context.Context) ([]backend.AllowedCar, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]backend.AllowedCar(nil), m.allowed...), nil
}

func (m *mockBackend) AllowedAdd(_ context.Context, plate string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allowed = append(m.allowed, backend.AllowedCar{Plate: plate})
	return nil
}

func (m *mockBackend) AllowedRemove(_ context.Context, plate string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.allowed[:0]
	for _, a := range m.allowed {
		if a.Plate != plate {
			out = append(out, a)
		}
	}
	m.allowed = out
	return nil
}

type mockConn struct{ connected bool }

func (m mockConn) IsConnected() bool { return m.connected }

// ─── Test Helpers ──────────────────────────────────────────────────

func strp(s string) *string { return &s }

func testCatalog(t *testing.T) *scene.Catalog {
	t.Helper()
	cat, err := scene.NewCatalog([]scene.Entry{
		{ID: "1", Label: "Red entry", Scene: scene.Scene{Type: "entry", Entry: strp("red.jpg")}},
		{ID: "5", Label: "Blue exit", Scene: scene.Scene{Type: "exit", Exit: strp("blue.jpg")}},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return cat
}

func testServer(t *testing.T) (*Server, *mockScenes, *mockBackend) {
	t.Helper()

	plate := "ABC123"
	scenes := &mockScenes{
		catalog: testCatalog(t),
		lot: scene.LotView{
			Spots: []parking.Spot{{Spot: 1, Occupied: true, Status: parking.StatusParked, Plate: "ABC123"}},
			Stats: parking.Stats{Total: 1, Taken: 1, Empty: 0},
			Full:  true,
		},
		gateView: scene.GateView{
			Snapshot: gate.Snapshot{Stage: gate.StageParked, Plate: &plate, Mode: gate.ModeEntry, RunID: 3},
			Timeline: gate.TimelineStatus(gate.ModeEntry, gate.StageParked),
		},
	}
	be := &mockBackend{
		sessions: map[string]*parking.Session{
			"abc123": {SessionID: 9, Plate: "ABC123", Status: parking.StatusExited, PreviousSpot: parking.IntPtr(2)},
		},
	}

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
			CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logger:  logging.Discard(),
		Scenes:  scenes,
		Backend: be,
		MQTT:    mockConn{connected: true},
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	srv.hub = NewHub(srv.wsCfg, srv.logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.hub.Run(ctx)

	return srv, scenes, be
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
}

// ─── Construction ──────────────────────────────────────────────────

func TestNew_MissingDeps(t *testing.T) {
	tests := []struct {
		name string
		deps Deps
	}{
		{"no logger", Deps{Scenes: &mockScenes{}, Backend: &mockBackend{}}},
		{"no scenes", Deps{Logger: logging.Discard(), Backend: &mockBackend{}}},
		{"no backend", Deps{Logger: logging.Discard(), Scenes: &mockScenes{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.deps); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

// ─── Health & Middleware ───────────────────────────────────────────

func TestHealth(t *testing.T) {
	srv, _, _ := testServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var resp map[string]any
	decode(t, w, &resp)
	if resp["status"] != "ok" || resp["version"] != "test" {
		t.Errorf("resp = %v", resp)
	}
}

func TestRequestID(t *testing.T) {
	srv, _, _ := testServer(t)

	w := do(t, srv, http.MethodGet, "/api/v1/health", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "client-123")
	rec := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "client-123" {
		t.Errorf("X-Request-ID = %q, want client-123", got)
	}
}

func TestCORS(t *testing.T) {
	srv, _, _ := testServer(t)
	router := srv.buildRouter()

	tests := []struct {
		origin string
		want   string
	}{
		{"http://localhost:3000", "http://localhost:3000"},
		{"http://evil.example", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/lot", nil)
		req.Header.Set("Origin", tt.origin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("preflight status = %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: ACAO = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

func TestNotFound(t *testing.T) {
	srv, _, _ := testServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/nonexistent", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	var e Error
	decode(t, w, &e)
	if e.Code != ErrCodeNotFound {
		t.Errorf("code = %q", e.Code)
	}
}

// ─── Lot, Gate, Dashboard ──────────────────────────────────────────

func TestLotGateDashboard(t *testing.T) {
	srv, _, _ := testServer(t)

	w := do(t, srv, http.MethodGet, "/api/v1/lot", "")
	var lot scene.LotView
	decode(t, w, &lot)
	if !lot.Full || lot.Stats.Taken != 1 || len(lot.Spots) != 1 {
		t.Errorf("lot = %+v", lot)
	}

	w = do(t, srv, http.MethodGet, "/api/v1/gate", "")
	var g struct {
		Stage    gate.Stage           `json:"stage"`
		Plate    *string              `json:"plate"`
		Timeline []gate.TimelineEntry `json:"timeline"`
	}
	decode(t, w, &g)
	if g.Stage != gate.StageParked || g.Plate == nil || *g.Plate != "ABC123" {
		t.Errorf("gate = %+v", g)
	}
	if len(g.Timeline) != len(gate.Timeline(gate.ModeEntry)) {
		t.Errorf("timeline entries = %d", len(g.Timeline))
	}

	w = do(t, srv, http.MethodGet, "/api/v1/dashboard", "")
	var d scene.Dashboard
	decode(t, w, &d)
	if d.Advisory != scene.AdvisoryRefreshFailed {
		t.Errorf("advisory = %q", d.Advisory)
	}
}

func TestMetrics(t *testing.T) {
	srv, _, _ := testServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var m SystemMetrics
	decode(t, w, &m)
	if m.MQTT == nil || !m.MQTT.Connected {
		t.Errorf("mqtt = %+v", m.MQTT)
	}
	if m.Database != nil {
		t.Errorf("database metrics without db: %+v", m.Database)
	}
	if m.Lot.Taken != 1 || !m.Lot.Full || m.Gate.Stage != "parked" || m.Gate.RunID != 3 {
		t.Errorf("lot/gate = %+v / %+v", m.Lot, m.Gate)
	}
}

// ─── Scenes ────────────────────────────────────────────────────────

func TestListScenes(t *testing.T) {
	srv, _, _ := testServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/scenes", "")

	var resp struct {
		Scenes []SceneResponse `json:"scenes"`
		Count  int             `json:"count"`
	}
	decode(t, w, &resp)
	if resp.Count != 2 || resp.Scenes[0].ID != "1" || resp.Scenes[1].Mode != "exit" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Scenes[0].Label != "Red entry" {
		t.Errorf("label = %q", resp.Scenes[0].Label)
	}
}

func TestGetScene(t *testing.T) {
	srv, _, _ := testServer(t)

	w := do(t, srv, http.MethodGet, "/api/v1/scenes/5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	w = do(t, srv, http.MethodGet, "/api/v1/scenes/42", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown scene status = %d", w.Code)
	}
}

func TestTriggerScene(t *testing.T) {
	srv, scenes, _ := testServer(t)

	w := do(t, srv, http.MethodPost, "/api/v1/scenes/1/trigger", "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	var resp TriggerResponse
	decode(t, w, &resp)
	if resp.TriggerID != "trigger-1" || resp.SceneID != "1" || resp.Status != "accepted" {
		t.Errorf("resp = %+v", resp)
	}

	// Scenes without catalog metadata still run.
	w = do(t, srv, http.MethodPost, "/api/v1/scenes/9/trigger", "")
	if w.Code != http.StatusAccepted {
		t.Errorf("uncatalogued scene status = %d, want 202", w.Code)
	}
	if len(scenes.triggered) != 2 || scenes.triggered[1] != "9" {
		t.Errorf("triggered = %v", scenes.triggered)
	}

	w = do(t, srv, http.MethodPost, "/api/v1/scenes/%20/trigger", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank scene status = %d, want 400", w.Code)
	}
}

func TestRefreshSessions(t *testing.T) {
	srv, scenes, _ := testServer(t)

	w := do(t, srv, http.MethodPost, "/api/v1/sessions/refresh", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	scenes.refreshErr = fmt.Errorf("%w: dial tcp", backend.ErrTransport)
	w = do(t, srv, http.MethodPost, "/api/v1/sessions/refresh", "")
	if w.Code != http.StatusBadGateway {
		t.Errorf("failed refresh status = %d, want 502", w.Code)
	}
	if scenes.refreshes != 2 {
		t.Errorf("refreshes = %d", scenes.refreshes)
	}
}

// ─── Plate Lookup & Whitelist ──────────────────────────────────────

func TestLatestForPlate(t *testing.T) {
	srv, _, be := testServer(t)

	w := do(t, srv, http.MethodGet, "/api/v1/sessions/plate/abc123/latest", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp PlateLookupResponse
	decode(t, w, &resp)
	if resp.Spot == nil || *resp.Spot != 2 || resp.DisplayStatus != "Exited" {
		t.Errorf("resp = %+v", resp)
	}

	w = do(t, srv, http.MethodGet, "/api/v1/sessions/plate/ZZZ9/latest", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown plate status = %d", w.Code)
	}

	w = do(t, srv, http.MethodGet, "/api/v1/sessions/plate/---/latest", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid plate status = %d", w.Code)
	}

	be.err = fmt.Errorf("%w: status 500", backend.ErrTransport)
	w = do(t, srv, http.MethodGet, "/api/v1/sessions/plate/ABC123/latest", "")
	if w.Code != http.StatusBadGateway {
		t.Errorf("backend failure status = %d", w.Code)
	}
}

func TestAllowedLifecycle(t *testing.T) {
	srv, _, _ := testServer(t)

	w := do(t, srv, http.MethodPost, "/api/v1/allowed", `{"plate":"XYZ789"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d", w.Code)
	}

	w = do(t, srv, http.MethodGet, "/api/v1/allowed", "")
	var list struct {
		Allowed []backend.AllowedCar `json:"allowed"`
		Count   int                  `json:"count"`
	}
	decode(t, w, &list)
	if list.Count != 1 || list.Allowed[0].Plate != "XYZ789" {
		t.Errorf("list = %+v", list)
	}

	w = do(t, srv, http.MethodDelete, "/api/v1/allowed/XYZ789", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("remove status = %d", w.Code)
	}

	w = do(t, srv, http.MethodGet, "/api/v1/allowed", "")
	decode(t, w, &list)
	if list.Count != 0 {
		t.Errorf("count after remove = %d", list.Count)
	}
}

func TestAddAllowed_BadRequests(t *testing.T) {
	srv, _, _ := testServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", "not json"},
		{"empty plate", `{"plate":"  "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/v1/allowed", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{scene.ErrSceneNotFound, http.StatusNotFound},
		{scene.ErrInvalidSceneID, http.StatusBadRequest},
		{backend.ErrInvalidPlate, http.StatusBadRequest},
		{backend.ErrMalformed, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		writeDomainError(w, tt.err)
		if w.Code != tt.want {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.want)
		}
	}
}

// ─── WebSocket Hub ─────────────────────────────────────────────────

func newTestPeer(hub *Hub, channels ...string) *peer {
	p := &peer{
		hub:      hub,
		out:      make(chan []byte, peerQueueSize),
		channels: make(map[string]struct{}),
	}
	for _, ch := range channels {
		p.channels[ch] = struct{}{}
	}
	return p
}

func TestHub_BroadcastToSubscribed(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, logging.Discard())

	subscribed := newTestPeer(hub, ChannelGateStageChanged)
	other := newTestPeer(hub, scene.ChannelLotUpdated)
	hub.add(subscribed)
	hub.add(other)

	hub.OnGate(gate.Snapshot{Stage: gate.StageOpening, Mode: gate.ModeEntry, RunID: 1})

	select {
	case raw := <-subscribed.out:
		var f struct {
			Kind    string         `json:"kind"`
			Channel string         `json:"channel"`
			Seq     uint64         `json:"seq"`
			Data    scene.GateView `json:"data"`
		}
		if err := json.Unmarshal(raw, &f); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if f.Kind != FrameEvent || f.Channel != ChannelGateStageChanged || f.Data.Stage != gate.StageOpening {
			t.Errorf("frame = %+v", f)
		}
		if f.Seq == 0 {
			t.Error("seq should be set on events")
		}
		if len(f.Data.Timeline) == 0 {
			t.Error("timeline missing")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast frame")
	}

	select {
	case <-other.out:
		t.Error("unsubscribed peer should not receive the frame")
	default:
	}

	hub.remove(other)
	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}
}

func TestHub_FullQueueDrops(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{}, logging.Discard())
	p := &peer{
		hub:      hub,
		out:      make(chan []byte, 1),
		channels: map[string]struct{}{scene.ChannelSceneDenied: {}},
	}
	hub.add(p)

	hub.Broadcast(scene.ChannelSceneDenied, scene.DenialInfo{SceneID: "5"})
	hub.Broadcast(scene.ChannelSceneDenied, scene.DenialInfo{SceneID: "5"})

	if got := hub.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1", got)
	}

	hub.remove(p)
	if p.push([]byte("{}")) {
		t.Error("push after shutdown should fail")
	}
	// A second shutdown must not panic.
	p.shutdown()
}

func TestPeer_SubscribeUnknownChannel(t *testing.T) {
	hub := NewHub(config.WebSocketConfig{}, logging.Discard())
	p := newTestPeer(hub)

	ack := p.subscribe([]string{scene.ChannelLotUpdated, "bogus"})
	if len(ack.Subscribed) != 1 || ack.Subscribed[0] != scene.ChannelLotUpdated {
		t.Errorf("Subscribed = %v", ack.Subscribed)
	}
	if len(ack.Unknown) != 1 || ack.Unknown[0] != "bogus" {
		t.Errorf("Unknown = %v", ack.Unknown)
	}

	ack = p.unsubscribe([]string{scene.ChannelLotUpdated, scene.ChannelSceneDenied})
	if len(ack.Unsubscribed) != 1 {
		t.Errorf("Unsubscribed = %v", ack.Unsubscribed)
	}
	if p.subscribed(scene.ChannelLotUpdated) {
		t.Error("still subscribed after unsubscribe")
	}
}

func readFrame(t *testing.T, ws *websocket.Conn) Frame {
	t.Helper()
	var f Frame
	if err := ws.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func TestWebSocket_SubscribeAndReceive(t *testing.T) {
	srv, _, _ := testServer(t)
	ts := httptest.NewServer(srv.buildRouter())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v (resp: %v)", err, resp)
	}
	defer ws.Close()
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	if err := ws.WriteJSON(Request{
		Op:       OpSubscribe,
		ID:       "sub-1",
		Channels: []string{scene.ChannelSceneDenied, ChannelGateStageChanged},
	}); err != nil {
		t.Fatalf("write subscribe: %v", err)
	}

	ack := readFrame(t, ws)
	if ack.Kind != FrameAck || ack.ID != "sub-1" {
		t.Fatalf("ack = %+v", ack)
	}

	// The gate channel is stateful: its current value follows the ack.
	current := readFrame(t, ws)
	if current.Kind != FrameEvent || current.Channel != ChannelGateStageChanged {
		t.Fatalf("current = %+v", current)
	}
	data, _ := json.Marshal(current.Data)
	var view scene.GateView
	if err := json.Unmarshal(data, &view); err != nil {
		t.Fatalf("decode gate view: %v", err)
	}
	if view.Stage != gate.StageParked || view.RunID != 3 {
		t.Errorf("current gate = %+v", view.Snapshot)
	}

	srv.hub.Broadcast(scene.ChannelSceneDenied, scene.DenialInfo{SceneID: "5", Message: "Vehicle not allowed"})

	ev := readFrame(t, ws)
	if ev.Kind != FrameEvent || ev.Channel != scene.ChannelSceneDenied {
		t.Errorf("event = %+v", ev)
	}
	if ev.Seq <= current.Seq {
		t.Errorf("seq %d should follow %d", ev.Seq, current.Seq)
	}

	if err := ws.WriteJSON(Request{Op: OpPing, ID: "p1"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	pong := readFrame(t, ws)
	if pong.Kind != FramePong || pong.ID != "p1" {
		t.Errorf("pong = %+v", pong)
	}

	if err := ws.WriteJSON(Request{Op: "shout", ID: "x"}); err != nil {
		t.Fatalf("write unknown op: %v", err)
	}
	if f := readFrame(t, ws); f.Kind != FrameError || f.ID != "x" {
		t.Errorf("error frame = %+v", f)
	}
}

func TestWebSocket_NoHub(t *testing.T) {
	srv, _, _ := testServer(t)
	srv.hub = nil

	rec := do(t, srv, http.MethodGet, "/api/v1/ws", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
