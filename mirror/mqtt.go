package mirror

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const connectTimeout = 5 * time.Second

// MQTTSink publishes each console line to a broker topic. Connection
// management is external: a Supervisor drives Connect until the sink
// reports Connected, and lines are dropped while the link is down.
type MQTTSink struct {
	client mqtt.Client
	topic  string
	lineBuf
}

func NewMQTTSink(broker, clientID, topic string) *MQTTSink {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(false).
		SetConnectTimeout(connectTimeout)
	return &MQTTSink{
		client:  mqtt.NewClient(opts),
		topic:   topic,
		lineBuf: lineBuf{buf: make([]byte, 0, 128)},
	}
}

func (s *MQTTSink) Connected() bool { return s.client.IsConnectionOpen() }

func (s *MQTTSink) Connect() error {
	tok := s.client.Connect()
	tok.WaitTimeout(connectTimeout)
	return tok.Error()
}

func (s *MQTTSink) Close() {
	s.client.Disconnect(250)
}

func (s *MQTTSink) WriteChar(b byte) {
	if s.add(b) {
		s.LineBreak()
	}
}

// LineBreak publishes the accumulated line fire-and-forget at QoS 0.
// The buffer is drained even when the link is down so stale bytes do
// not prefix the next line after a reconnect.
func (s *MQTTSink) LineBreak() {
	line := s.take()
	if !s.client.IsConnectionOpen() {
		return
	}
	s.client.Publish(s.topic, 0, false, append([]byte(nil), line...))
}
