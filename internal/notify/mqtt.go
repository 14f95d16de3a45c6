package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-inspection/internal/config"
)

const (
	mqttQoS            = 1
	mqttConnectTimeout = 10 * time.Second
	mqttPublishTimeout = 5 * time.Second
)

// mqttPublisher is the part of mqtt.Client the notifier needs.
type mqttPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTNotifier publishes events as JSON to an MQTT topic.
type MQTTNotifier struct {
	client mqttPublisher
	topic  string
}

// NewMQTTNotifier connects to the configured broker.
func NewMQTTNotifier(cfg config.NotifierConfig) (*MQTTNotifier, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(mqttConnectTimeout).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timeout", cfg.MQTTBroker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", cfg.MQTTBroker, err)
	}
	log.WithField("broker", cfg.MQTTBroker).Info("Connected to MQTT broker")
	return &MQTTNotifier{client: client, topic: cfg.MQTTTopic}, nil
}

// Notify publishes the event without waiting for the broker acknowledgement.
func (n *MQTTNotifier) Notify(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	token := n.client.Publish(n.topic, mqttQoS, false, payload)
	go func() {
		if !token.WaitTimeout(mqttPublishTimeout) {
			log.WithField("event_id", event.ID).Warn("MQTT publish not acknowledged in time")
			return
		}
		if err := token.Error(); err != nil {
			log.WithError(err).WithField("event_id", event.ID).Error("MQTT publish failed")
		}
	}()
	return nil
}

// Close disconnects from the broker.
func (n *MQTTNotifier) Close() {
	if c, ok := n.client.(mqtt.Client); ok {
		c.Disconnect(250)
	}
}
