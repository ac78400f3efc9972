package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
)

type natsPublisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

type NATS struct {
	conn    natsPublisher
	subject string
	timeout time.Duration
}

func NewNATS(url, subject string, timeout time.Duration) (*NATS, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, nats.Name("w1-temperature-service"), nats.Timeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return newNATSWithConn(nc, subject, timeout), nil
}

func newNATSWithConn(conn natsPublisher, subject string, timeout time.Duration) *NATS {
	return &NATS{conn: conn, subject: subject, timeout: timeout}
}

// Notify publishes to <subject>.<sensor id>.
func (n *NATS) Notify(ctx context.Context, alert models.Alert) error {
	payload, err := encode(alert)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%s.%d", n.subject, alert.SensorID)
	if err := n.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}

	ctx, cancel := boundedContext(ctx, n.timeout)
	defer cancel()
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("nats flush %s: %w", subject, err)
	}
	return nil
}

func (n *NATS) Close() error {
	return n.conn.Drain()
}
