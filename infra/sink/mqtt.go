package sink

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/bikecast/core/model"
	coresink "github.com/kilianp07/bikecast/core/sink"
	"github.com/kilianp07/bikecast/infra/logger"
	"github.com/kilianp07/bikecast/pkg/export"
)

// MQTTConfig defines the connection and publishing parameters.
type MQTTConfig struct {
	Broker      string      `json:"broker"`
	ClientID    string      `json:"client_id"`
	Username    string      `json:"username"`
	Password    string      `json:"password"`
	TopicPrefix string      `json:"topic_prefix"`
	QoS         byte        `json:"qos"`
	Retain      bool        `json:"retain"`
	UseTLS      bool        `json:"use_tls"`
	ClientCert  string      `json:"client_cert"`
	ClientKey   string      `json:"client_key"`
	CABundle    string      `json:"ca_bundle"`
	MaxRetries  int         `json:"max_retries"`
	BackoffMS   int         `json:"backoff_ms"`
	TLSConfig   *tls.Config `json:"-"`
}

// SetDefaults applies fallback values for optional fields.
func (c *MQTTConfig) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = fmt.Sprintf("bikecast-%d", time.Now().UnixNano())
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "bikecast/stations"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 100
	}
}

// pahoClient is the subset of paho.Client used by the sink.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTTSink publishes each observation as JSON on a per-station topic and a
// run summary on <prefix>/runs.
type MQTTSink struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewMQTTSink connects to the broker.
func NewMQTTSink(cfg MQTTConfig) (*MQTTSink, error) {
	cfg.SetDefaults()
	if cfg.QoS > 2 {
		return nil, fmt.Errorf("invalid qos %d", cfg.QoS)
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt-sink")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &MQTTSink{
		cli:        c,
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// NewClientOptions builds mqtt client options from MQTTConfig.
func NewClientOptions(cfg MQTTConfig) (*paho.ClientOptions, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt broker is required")
	}
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
func (c MQTTConfig) LoadTLSConfig() (*tls.Config, error) {
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
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

type observationMessage struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"`
	model.Observation
}

type runMessage struct {
	RunID       string `json:"run_id"`
	GeneratedAt int64  `json:"generated_at"`
	Rows        int    `json:"rows"`
	Params      any    `json:"params"`
}

// WriteBatch publishes every row, then the run summary.
func (s *MQTTSink) WriteBatch(ctx context.Context, b coresink.Batch) error {
	for _, r := range b.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := json.Marshal(observationMessage{
			RunID:       b.RunID,
			Timestamp:   r.Timestamp.Format(export.TimestampLayout),
			Observation: r,
		})
		if err != nil {
			return err
		}
		if err := s.publish(fmt.Sprintf("%s/%s", s.prefix, r.StationID), payload); err != nil {
			return err
		}
	}
	payload, err := json.Marshal(runMessage{
		RunID:       b.RunID,
		GeneratedAt: b.GeneratedAt.Unix(),
		Rows:        len(b.Rows),
		Params:      b.Params,
	})
	if err != nil {
		return err
	}
	if err := s.publish(s.prefix+"/runs", payload); err != nil {
		return err
	}
	s.log.Infof("published %d observations for run %s", len(b.Rows), b.RunID)
	return nil
}

func (s *MQTTSink) publish(topic string, payload []byte) error {
	var publishErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		token := s.cli.Publish(topic, s.qos, s.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			return nil
		}
		s.log.Errorf("publish attempt %d to %s failed: %v", attempt+1, topic, publishErr)
		if attempt < s.maxRetries {
			time.Sleep(s.backoff * time.Duration(1<<attempt))
		}
	}
	return publishErr
}

// Close gracefully closes the MQTT connection.
func (s *MQTTSink) Close() error {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
	return nil
}
