package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InterventionStatusPending is the initial status of every intervention.
const InterventionStatusPending = "pending"

// Intervention is a maintenance work order spawned by an inspection review.
type Intervention struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID    string             `json:"vehicle_id" bson:"vehicle_id"`
	InspectionID string             `json:"inspection_id" bson:"inspection_id"`
	Description  string             `json:"description" bson:"description"`
	Status       string             `json:"status" bson:"status"`     // "pending", "in_progress", "completed", "cancelled"
	Priority     string             `json:"priority" bson:"priority"` // "low", "medium", "high", "critical"
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// PriorityForSeverity maps the worst unresolved defect severity to a work order priority.
func PriorityForSeverity(s Severity) string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "high"
	case SeverityMinor:
		return "medium"
	default:
		return "low"
	}
}
