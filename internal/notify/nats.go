package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-inspection/internal/config"
)

// natsPublisher is the part of *nats.Conn the notifier needs.
type natsPublisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes events as JSON on a NATS subject.
type NATSNotifier struct {
	conn    natsPublisher
	subject string
}

// NewNATSNotifier connects to the configured NATS server.
func NewNATSNotifier(cfg config.NotifierConfig) (*NATSNotifier, error) {
	nc, err := nats.Connect(cfg.NATSURL,
		nats.Name("fleet-inspection"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("NATS disconnected")
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect to %s: %w", cfg.NATSURL, err)
	}
	log.WithField("url", cfg.NATSURL).Info("Connected to NATS")
	return &NATSNotifier{conn: nc, subject: cfg.NATSSubject}, nil
}

// Notify publishes the event. The NATS client buffers outgoing messages, so
// this does not wait on the server.
func (n *NATSNotifier) Notify(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Close drains the connection.
func (n *NATSNotifier) Close() {
	if nc, ok := n.conn.(*nats.Conn); ok {
		if err := nc.Drain(); err != nil {
			log.WithError(err).Warn("Failed to drain NATS connection")
		}
	}
}
