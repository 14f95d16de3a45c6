// Package notify publishes inspection workflow events to external subscribers.
// Publishing is fire-and-forget: callers log failures and carry on.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-inspection/internal/config"
)

// EventInspectionWorkCompleted is emitted after an inspection has been validated.
const EventInspectionWorkCompleted = "INSPECTION_WORK_COMPLETED"

// Event is the payload sent to subscribers.
type Event struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	InspectionID   string    `json:"inspectionId"`
	VehicleID      string    `json:"vehicleId"`
	HasAnomalies   bool      `json:"hasAnomalies"`
	AnomaliesCount int       `json:"anomaliesCount"`
	InterventionID string    `json:"interventionId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// NewWorkCompletedEvent builds the event for a validated inspection.
func NewWorkCompletedEvent(inspectionID, vehicleID string, anomalies int, interventionID string, at time.Time) Event {
	return Event{
		ID:             uuid.New().String(),
		Type:           EventInspectionWorkCompleted,
		InspectionID:   inspectionID,
		VehicleID:      vehicleID,
		HasAnomalies:   anomalies > 0,
		AnomaliesCount: anomalies,
		InterventionID: interventionID,
		OccurredAt:     at,
	}
}

// Notifier delivers events. Implementations must not block on the network.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier writes events to the service log.
type LogNotifier struct{}

// Notify logs the event.
func (LogNotifier) Notify(_ context.Context, event Event) error {
	log.WithFields(log.Fields{
		"event_id":        event.ID,
		"type":            event.Type,
		"inspection_id":   event.InspectionID,
		"vehicle_id":      event.VehicleID,
		"anomalies_count": event.AnomaliesCount,
	}).Info("Inspection event")
	return nil
}

// NopNotifier drops every event.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(context.Context, Event) error { return nil }

// New builds the notifier selected by cfg.Backend. The returned func releases
// the underlying connection.
func New(cfg config.NotifierConfig) (Notifier, func(), error) {
	switch cfg.Backend {
	case "", "log":
		return LogNotifier{}, func() {}, nil
	case "none":
		return NopNotifier{}, func() {}, nil
	case "mqtt":
		n, err := NewMQTTNotifier(cfg)
		if err != nil {
			return nil, nil, err
		}
		return n, n.Close, nil
	case "nats":
		n, err := NewNATSNotifier(cfg)
		if err != nil {
			return nil, nil, err
		}
		return n, n.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown notifier backend %q", cfg.Backend)
	}
}
