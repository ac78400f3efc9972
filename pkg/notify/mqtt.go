package notify

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
)

const mqttDisconnectQuiesceMs = 250

type mqttPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

type MQTT struct {
	client  mqttPublisher
	topic   string
	timeout time.Duration
}

func NewMQTT(broker, topic string, timeout time.Duration) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(fmt.Sprintf("w1-temperature-%d", time.Now().UnixNano())).
		SetConnectTimeout(timeout).
		SetAutoReconnect(true)
	c := mqtt.NewClient(opts)
	if token := c.Connect(); !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt connect %s: timed out", broker)
	} else if token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	return newMQTTWithClient(c, topic, timeout), nil
}

func newMQTTWithClient(client mqttPublisher, topic string, timeout time.Duration) *MQTT {
	return &MQTT{client: client, topic: topic, timeout: timeout}
}

func (m *MQTT) Notify(ctx context.Context, alert models.Alert) error {
	payload, err := encode(alert)
	if err != nil {
		return err
	}

	ctx, cancel := boundedContext(ctx, m.timeout)
	defer cancel()

	// a publish made while reconnecting completes only once the broker is back
	token := m.client.Publish(m.topic, 1, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("mqtt publish %s: %w", m.topic, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", m.topic, err)
	}
	return nil
}

func (m *MQTT) Close() error {
	m.client.Disconnect(mqttDisconnectQuiesceMs)
	return nil
}
