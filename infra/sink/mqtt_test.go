package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient implements pahoClient for tests
type mockClient struct {
	published   []published
	publishErrs []error
	connectErr  error
	connected   bool
}

type published struct {
	topic   string
	qos     byte
	payload []byte
}

func (m *mockClient) IsConnected() bool { return m.connected }
func (m *mockClient) Connect() paho.Token {
	m.connected = m.connectErr == nil
	return &dummyToken{err: m.connectErr}
}
func (m *mockClient) Disconnect(uint) { m.connected = false }
func (m *mockClient) Publish(topic string, qos byte, _ bool, payload interface{}) paho.Token {
	if len(m.publishErrs) > 0 {
		err := m.publishErrs[0]
		m.publishErrs = m.publishErrs[1:]
		if err != nil {
			return &dummyToken{err: err}
		}
	}
	m.published = append(m.published, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return &dummyToken{}
}

type dummyToken struct{ err error }

func (d dummyToken) Wait() bool                     { return true }
func (d dummyToken) WaitTimeout(time.Duration) bool { return true }
func (d dummyToken) Done() <-chan struct{}          { ch := make(chan struct{}); close(ch); return ch }
func (d dummyToken) Error() error                   { return d.err }

func withMockClient(t *testing.T, mc *mockClient) {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return mc }
	t.Cleanup(func() { newMQTTClient = orig })
}

func TestMQTTSink_WriteBatch(t *testing.T) {
	mc := &mockClient{}
	withMockClient(t, mc)
	s, err := NewMQTTSink(MQTTConfig{Broker: "tcp://localhost:1883", TopicPrefix: "ams", QoS: 1})
	require.NoError(t, err)

	b := testBatch(t)
	require.NoError(t, s.WriteBatch(context.Background(), b))
	require.Len(t, mc.published, len(b.Rows)+1)

	first := mc.published[0]
	assert.Equal(t, "ams/AMS-001", first.topic)
	assert.Equal(t, byte(1), first.qos)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(first.payload, &msg))
	assert.Equal(t, "run-1", msg["run_id"])
	assert.Equal(t, "2024-01-15 08:00:00", msg["timestamp"])
	assert.Equal(t, float64(b.Rows[0].BikesAvailable), msg["bikes_available"])

	last := mc.published[len(mc.published)-1]
	assert.Equal(t, "ams/runs", last.topic)
	require.NoError(t, json.Unmarshal(last.payload, &msg))
	assert.Equal(t, float64(len(b.Rows)), msg["rows"])

	require.NoError(t, s.Close())
	assert.False(t, mc.connected)
}

func TestMQTTSink_RetriesPublish(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail"), nil}}
	withMockClient(t, mc)
	s, err := NewMQTTSink(MQTTConfig{Broker: "tcp://localhost:1883", BackoffMS: 1})
	require.NoError(t, err)
	require.NoError(t, s.publish("bikecast/stations/AMS-001", []byte("{}")))
	assert.Len(t, mc.published, 1)
}

func TestMQTTSink_GivesUp(t *testing.T) {
	fail := fmt.Errorf("down")
	mc := &mockClient{publishErrs: []error{fail, fail, fail}}
	withMockClient(t, mc)
	s, err := NewMQTTSink(MQTTConfig{Broker: "tcp://localhost:1883", MaxRetries: 2, BackoffMS: 1})
	require.NoError(t, err)
	assert.ErrorIs(t, s.publish("t", []byte("{}")), fail)
}

func TestMQTTSink_ConfigErrors(t *testing.T) {
	withMockClient(t, &mockClient{connectErr: fmt.Errorf("refused")})
	_, err := NewMQTTSink(MQTTConfig{Broker: "tcp://localhost:1883"})
	assert.Error(t, err)

	_, err = NewMQTTSink(MQTTConfig{})
	assert.Error(t, err)

	_, err = NewMQTTSink(MQTTConfig{Broker: "tcp://x:1883", QoS: 3})
	assert.Error(t, err)

	_, err = NewClientOptions(MQTTConfig{Broker: "ssl://x:8883", UseTLS: true})
	assert.Error(t, err)
}
