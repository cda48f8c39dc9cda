package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/intellipark-core/internal/infrastructure/config"
)

func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "intellipark-test",
		},
		QoS:         1,
		TopicPrefix: "lot7",
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func TestTopics(t *testing.T) {
	topics := Topics{Prefix: "lot7/"}
	tests := []struct {
		got, want string
	}{
		{topics.GateState(), "lot7/gate/state"},
		{topics.LotStats(), "lot7/lot/stats"},
		{topics.SceneEvents(), "lot7/scene/events"},
		{topics.SystemStatus(), "lot7/system/status"},
		{topics.SceneCommand("5"), "lot7/command/scene/5"},
		{topics.AllSceneCommands(), "lot7/command/scene/+"},
		{Topics{}.GateState(), "intellipark/gate/state"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("topic = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestParseSceneCommand(t *testing.T) {
	topics := Topics{Prefix: "intellipark"}
	tests := []struct {
		topic  string
		wantID string
		wantOK bool
	}{
		{"intellipark/command/scene/3", "3", true},
		{"intellipark/command/scene/", "", false},
		{"intellipark/command/scene/3/extra", "", false},
		{"other/command/scene/3", "", false},
	}
	for _, tt := range tests {
		id, ok := topics.ParseSceneCommand(tt.topic)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("ParseSceneCommand(%q) = (%q, %v), want (%q, %v)", tt.topic, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "gate"
	cfg.Auth.Password = "pw"
	cfg.Broker.TLS = true

	opts := buildClientOptions(cfg)
	if len(opts.Servers) != 1 || opts.Servers[0].String() != "ssl://127.0.0.1:1883" {
		t.Errorf("Servers = %v", opts.Servers)
	}
	if opts.ClientID != "intellipark-test" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "gate" || opts.Password != "pw" {
		t.Error("credentials not applied")
	}
	if !opts.AutoReconnect || !opts.CleanSession {
		t.Error("auto reconnect / clean session not set")
	}
	if opts.TLSConfig == nil {
		t.Error("TLS config missing")
	}
}

func TestLWTConfigured(t *testing.T) {
	opts := pahomqtt.NewClientOptions()
	configureLWT(opts, Topics{Prefix: "lot7"}, "cid")
	if !opts.WillEnabled || !opts.WillRetained {
		t.Fatal("will not enabled/retained")
	}
	if opts.WillTopic != "lot7/system/status" {
		t.Errorf("WillTopic = %q", opts.WillTopic)
	}
	var p statusPayload
	if err := json.Unmarshal(opts.WillPayload, &p); err != nil {
		t.Fatalf("will payload: %v", err)
	}
	if p.Status != "offline" || p.ClientID != "cid" || p.Reason != "unexpected_disconnect" {
		t.Errorf("will payload = %+v", p)
	}
}

func TestPublishValidation(t *testing.T) {
	c := newClient(testConfig())

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		want    error
	}{
		{"empty topic", "", nil, 1, ErrInvalidTopic},
		{"bad qos", "a/b", nil, 3, ErrInvalidQoS},
		{"too large", "a/b", make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
		{"not connected", "a/b", []byte("{}"), 1, ErrNotConnected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Publish(tt.topic, tt.payload, tt.qos, false); !errors.Is(err, tt.want) {
				t.Errorf("Publish() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := newClient(testConfig())
	noop := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 1, noop); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic error = %v", err)
	}
	if err := c.Subscribe("a", 5, noop); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("bad qos error = %v", err)
	}
	if err := c.Subscribe("a", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler error = %v", err)
	}
	if err := c.Subscribe("a", 1, noop); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected error = %v", err)
	}
	if c.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d", c.SubscriptionCount())
	}
}

func TestHealthCheckDisconnected(t *testing.T) {
	c := newClient(testConfig())
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() = %v, want ErrNotConnected", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck(cancelled) = %v", err)
	}
}

// fakeMessage implements pahomqtt.Message for handler tests.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
	errs  []string
}

func (l *recordingLogger) Info(string, ...any) {}
func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}
func (l *recordingLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	l.errs = append(l.errs, msg)
	l.mu.Unlock()
}

func TestWrapHandlerRecoversAndLogs(t *testing.T) {
	c := newClient(testConfig())
	log := &recordingLogger{}
	c.SetLogger(log)

	panicky := c.wrapHandler(func(string, []byte) error { panic("boom") })
	failing := c.wrapHandler(func(string, []byte) error { return errors.New("bad payload") })

	msg := fakeMessage{topic: "lot7/command/scene/1"}
	panicky(nil, msg)
	failing(nil, msg)

	if len(log.errs) != 1 {
		t.Errorf("panic logs = %d, want 1", len(log.errs))
	}
	if len(log.warns) != 1 {
		t.Errorf("error logs = %d, want 1", len(log.warns))
	}
}
