package mqtt

import (
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/nmarchais/selekt/core/model"
	"github.com/nmarchais/selekt/internal/eventbus"
)

func TestNewClientOptionsAuth(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("opts: %v", err)
	}
	if opts.Username != "u" || opts.Password != "p" {
		t.Fatalf("auth not set")
	}
}

func TestNewClientOptions_LWT(t *testing.T) {
	opts, err := NewClientOptions(Config{Broker: "tcp://localhost:1883", ClientID: "id", LWTTopic: "lwt", LWTPayload: "bye", LWTQoS: 1})
	if err != nil {
		t.Fatalf("opts: %v", err)
	}
	if !opts.WillEnabled || opts.WillTopic != "lwt" || string(opts.WillPayload) != "bye" {
		t.Fatalf("will options incorrect")
	}
}

func TestLoadTLSConfig_MissingFiles(t *testing.T) {
	cfg := Config{UseTLS: true}
	if _, err := cfg.LoadTLSConfig(); err == nil {
		t.Fatal("expected error for missing cert paths")
	}
}

func TestSource_SubscribesAndPublishesEnvelopes(t *testing.T) {
	mc := &mockClient{}
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	defer func() { newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) } }()

	bus := eventbus.NewTyped[model.Envelope](4)
	sub := bus.Subscribe()

	subs := []Subscription{
		{Stream: "sensors", Topic: "sensors/+", ContentType: "application/json", QoS: 1},
		{Stream: "exports", Topic: "exports/#", ContentType: "text/csv"},
	}
	src, err := NewSource(Config{Broker: "tcp://localhost:1883", ClientID: "id"}, subs, bus)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	defer src.Close()

	if len(mc.subscribed) != 2 {
		t.Fatalf("expected 2 subscriptions got %d", len(mc.subscribed))
	}
	if mc.subscribed[0].topic != "sensors/+" || mc.subscribed[0].qos != 1 {
		t.Fatalf("subscription mismatch: %+v", mc.subscribed[0])
	}

	mc.deliver(0, mockMessage{topic: "sensors/a", p: []byte(`{"temp": 20}`)})

	select {
	case env := <-sub:
		if env.Stream != "sensors" || env.Topic != "sensors/a" || env.ContentType != "application/json" {
			t.Fatalf("envelope mismatch: %+v", env)
		}
		if env.ID == "" || env.Received.IsZero() {
			t.Fatalf("envelope not stamped: %+v", env)
		}
	case <-time.After(time.Second):
		t.Fatal("no envelope published")
	}
}

// mockClient implements pahoClient for tests.
type mockClient struct {
	opts       *paho.ClientOptions
	subscribed []struct {
		topic   string
		qos     byte
		handler paho.MessageHandler
	}
}

func (m *mockClient) IsConnected() bool { return true }
func (m *mockClient) Connect() paho.Token {
	if m.opts != nil && m.opts.OnConnect != nil {
		m.opts.OnConnect(m)
	}
	return &dummyToken{}
}
func (m *mockClient) Disconnect(uint) {}
func (m *mockClient) Subscribe(topic string, qos byte, cb paho.MessageHandler) paho.Token {
	m.subscribed = append(m.subscribed, struct {
		topic   string
		qos     byte
		handler paho.MessageHandler
	}{topic, qos, cb})
	return &dummyToken{}
}
func (m *mockClient) deliver(i int, msg paho.Message) {
	m.subscribed[i].handler(m, msg)
}

// remaining paho.Client methods so the mock can be passed to OnConnect
func (m *mockClient) Publish(string, byte, bool, interface{}) paho.Token { return &dummyToken{} }
func (m *mockClient) SubscribeMultiple(map[string]byte, paho.MessageHandler) paho.Token {
	return &dummyToken{}
}
func (m *mockClient) Unsubscribe(...string) paho.Token        { return &dummyToken{} }
func (m *mockClient) AddRoute(string, paho.MessageHandler)    {}
func (m *mockClient) OptionsReader() paho.ClientOptionsReader { return paho.ClientOptionsReader{} }
func (m *mockClient) IsConnectionOpen() bool                  { return true }

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

type mockMessage struct {
	topic string
	p     []byte
}

func (m mockMessage) Duplicate() bool   { return false }
func (m mockMessage) Qos() byte         { return 0 }
func (m mockMessage) Retained() bool    { return false }
func (m mockMessage) Topic() string     { return m.topic }
func (m mockMessage) MessageID() uint16 { return 0 }
func (m mockMessage) Payload() []byte   { return m.p }
func (m mockMessage) Ack()              {}
