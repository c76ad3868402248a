// Package feed receives flight schedule updates over MQTT and republishes
// them on a typed bus for the planning service.
package feed

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/kitflow/core/model"
	"github.com/kilianp07/kitflow/infra/logger"
	"github.com/kilianp07/kitflow/internal/eventbus"
)

// Config defines the connection parameters for the flight event feed.
type Config struct {
	Enabled    bool   `json:"enabled"`
	Broker     string `json:"broker"`
	ClientID   string `json:"client_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	Topic      string `json:"topic"`
	QoS        byte   `json:"qos"`
	UseTLS     bool   `json:"use_tls"`
	ClientCert string `json:"client_cert"`
	ClientKey  string `json:"client_key"`
	CABundle   string `json:"ca_bundle"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "flights/events"
	}
	if c.ClientID == "" {
		c.ClientID = "kitflow-feed-" + uuid.NewString()[:8]
	}
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Source subscribes to the flight event topic and fans decoded events out
// on a typed bus.
type Source struct {
	cli pahoClient
	bus *eventbus.TypedBus[model.FlightEvent]
	log logger.Logger
}

// NewSource connects to the broker and subscribes to the configured topic.
func NewSource(cfg Config) (*Source, error) {
	log := logger.New("flight-feed")
	s := &Source{
		bus: eventbus.NewTyped[model.FlightEvent](),
		log: log,
	}

	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if token := c.Subscribe(cfg.Topic, cfg.QoS, s.onMessage); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
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

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
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
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

func (s *Source) onMessage(_ paho.Client, msg paho.Message) {
	var ev model.FlightEvent
	if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
		s.log.Errorf("failed to decode flight event: %v", err)
		return
	}
	if ev.FlightID == "" {
		s.log.Warnf("flight event without id on %s, dropping", msg.Topic())
		return
	}
	s.bus.Publish(ev)
}

// Events returns a channel of decoded flight events.
func (s *Source) Events() <-chan model.FlightEvent {
	return s.bus.Subscribe()
}

// Close disconnects from the broker and closes all subscriber channels.
func (s *Source) Close() {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
	s.bus.Close()
}
