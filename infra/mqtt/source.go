// Package mqtt implements the MQTT envelope source using Eclipse Paho.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/nmarchais/selekt/core/model"
	"github.com/nmarchais/selekt/infra/logger"
	"github.com/nmarchais/selekt/internal/eventbus"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker     string      `json:"broker"`
	ClientID   string      `json:"client_id"`
	Username   string      `json:"username"`
	Password   string      `json:"password"`
	UseTLS     bool        `json:"use_tls"`
	ClientCert string      `json:"client_cert"`
	ClientKey  string      `json:"client_key"`
	CABundle   string      `json:"ca_bundle"`
	AuthMethod string      `json:"auth_method"`
	LWTTopic   string      `json:"lwt_topic"`
	LWTPayload string      `json:"lwt_payload"`
	LWTQoS     byte        `json:"lwt_qos"`
	LWTRetain  bool        `json:"lwt_retain"`
	TLSConfig  *tls.Config `json:"-"`
}

// Subscription binds one broker topic filter to a named stream.
type Subscription struct {
	Stream      string
	Topic       string
	ContentType string
	QoS         byte
}

// pahoClient is the subset of the Paho client used by the source; tests
// substitute a mock through newMQTTClient.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Source subscribes to the configured topics and publishes envelopes onto
// the event bus.
type Source struct {
	cli  pahoClient
	subs []Subscription
	bus  *eventbus.TypedBus[model.Envelope]
	log  logger.Logger
}

// NewSource connects to the broker and subscribes every stream topic. The
// subscriptions are re-established on reconnect.
func NewSource(cfg Config, subs []Subscription, bus *eventbus.TypedBus[model.Envelope]) (*Source, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt_source")
	s := &Source{subs: subs, bus: bus, log: log}

	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		for _, sub := range s.subs {
			sub := sub
			token := c.Subscribe(sub.Topic, sub.QoS, func(_ paho.Client, msg paho.Message) {
				s.onMessage(sub, msg)
			})
			if token.Wait() && token.Error() != nil {
				log.Errorf("subscribe %s: %v", sub.Topic, token.Error())
			}
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	s.cli = c
	return s, nil
}

func (s *Source) onMessage(sub Subscription, msg paho.Message) {
	env := model.NewEnvelope(msg.Topic(), sub.ContentType, msg.Payload())
	env.Stream = sub.Stream
	s.log.Debugw("envelope received", map[string]any{
		"stream": sub.Stream,
		"topic":  msg.Topic(),
		"bytes":  len(msg.Payload()),
	})
	s.bus.Publish(env)
}

// Close gracefully disconnects from the broker.
func (s *Source) Close() {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}
	return cfg, nil
}
