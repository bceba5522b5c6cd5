package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremqtt "github.com/Benjamin-Elon/trellis/core/mqtt"
	"github.com/Benjamin-Elon/trellis/core/planner"
	"github.com/Benjamin-Elon/trellis/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT publisher.
type Config struct {
	Enabled     bool        `json:"enabled" yaml:"enabled"`
	Broker      string      `json:"broker" yaml:"broker"`
	ClientID    string      `json:"client_id" yaml:"client_id"`
	Username    string      `json:"username" yaml:"username"`
	Password    string      `json:"password" yaml:"password"`
	TopicPrefix string      `json:"topic_prefix" yaml:"topic_prefix"`
	QoS         byte        `json:"qos" yaml:"qos"`
	Retain      bool        `json:"retain" yaml:"retain"`
	UseTLS      bool        `json:"use_tls" yaml:"use_tls"`
	ClientCert  string      `json:"client_cert" yaml:"client_cert"`
	ClientKey   string      `json:"client_key" yaml:"client_key"`
	CABundle    string      `json:"ca_bundle" yaml:"ca_bundle"`
	MaxRetries  int         `json:"max_retries" yaml:"max_retries"`
	BackoffMS   int         `json:"backoff_ms" yaml:"backoff_ms"`
	TLSConfig   *tls.Config `json:"-" yaml:"-"`
}

// SetDefaults fills unset fields with workable values.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "trellis-planner"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "trellis"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 100
	}
}

// Validate rejects settings the broker would refuse.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt: broker required")
	}
	if c.QoS > 2 {
		return fmt.Errorf("mqtt: qos must be 0, 1 or 2")
	}
	return nil
}

const publishTimeout = 5 * time.Second

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// PahoPublisher implements the core Publisher interface using Eclipse Paho.
type PahoPublisher struct {
	cli    pahoClient
	prefix string
	qos    byte
	retain bool

	logger     logger.Logger
	maxRetries int
	backoff    time.Duration
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewPahoPublisher connects to the MQTT broker.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	cfg.SetDefaults()
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt-publisher")
	opts.OnConnect = func(_ paho.Client) {
		log.Infof("MQTT connected")
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
	return &PahoPublisher{
		cli:        c,
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		logger:     log,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
	}, nil
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

// PublishSchedule sends the schedule as JSON on the plant topic. With Retain
// set, new subscribers immediately receive the current plan.
func (p *PahoPublisher) PublishSchedule(ctx context.Context, s planner.Schedule) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/schedule/%s", p.prefix, topicSlug(s.Plant))

	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-token.Done():
		case <-time.After(publishTimeout):
			return fmt.Errorf("%w", coremqtt.ErrPublishTimeout)
		}
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Infof("published plan %s to %s", s.PlanID, topic)
			return nil
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(1<<attempt)):
		}
	}
	return publishErr
}

// Close gracefully closes the MQTT connection.
func (p *PahoPublisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}

// topicSlug lowercases the plant name and replaces characters with MQTT
// topic semantics.
func topicSlug(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '+', '#':
			return '-'
		}
		return unicode.ToLower(r)
	}, strings.TrimSpace(name))
}
