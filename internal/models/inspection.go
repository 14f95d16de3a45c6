package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Severity is the ordinal classification of a single defect.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityMinor    Severity = "minor"
	SeverityNone     Severity = "none"
)

// IsValid reports whether s is one of the known severities. The empty
// severity is not valid; it means "not classified yet".
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityMinor, SeverityNone:
		return true
	default:
		return false
	}
}

// Rank orders severities: critical > warning > minor > none.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityMinor:
		return 1
	default:
		return 0
	}
}

// InspectionStatus is the persisted lifecycle state of an inspection.
type InspectionStatus string

const (
	InspectionStatusPendingReview  InspectionStatus = "pending_review"
	InspectionStatusRequiresAction InspectionStatus = "requires_action"
	InspectionStatusValidated      InspectionStatus = "validated"
)

// AwaitingValidation returns true while a reviewer can still validate the inspection.
func (s InspectionStatus) AwaitingValidation() bool {
	return s == InspectionStatusPendingReview || s == InspectionStatusRequiresAction
}

// CanTransitionTo returns true if this status can transition to the target status.
func (s InspectionStatus) CanTransitionTo(target InspectionStatus) bool {
	switch s {
	case InspectionStatusPendingReview, InspectionStatusRequiresAction:
		return target == InspectionStatusValidated
	default:
		return false
	}
}

// Defect is a single reported anomaly, embedded in an Inspection.
type Defect struct {
	Category          string   `json:"category" bson:"category"` // "mechanical", "tires", "electrical", "lights", "safety", "body", "interior", "chassis", ...
	Description       string   `json:"description" bson:"description"`
	Severity          Severity `json:"severity,omitempty" bson:"severity,omitempty"`
	Location          string   `json:"location,omitempty" bson:"location,omitempty"`
	Repaired          bool     `json:"repaired,omitempty" bson:"repaired,omitempty"`
	RepairDescription string   `json:"repair_description,omitempty" bson:"repair_description,omitempty"`
}

// FuelLevels holds tank and battery levels reported at inspection time, in percent.
type FuelLevels struct {
	Fuel    *float64 `json:"fuel,omitempty" bson:"fuel,omitempty"`
	AdBlue  *float64 `json:"adblue,omitempty" bson:"adblue,omitempty"`
	Battery *float64 `json:"battery,omitempty" bson:"battery,omitempty"`
}

// Inspection is a single vehicle check event.
type Inspection struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID      string             `json:"vehicle_id" bson:"vehicle_id"`
	InspectionType string             `json:"inspection_type" bson:"inspection_type"` // "pre_trip", "post_trip", "periodic"
	InspectorID    string             `json:"inspector_id,omitempty" bson:"inspector_id,omitempty"`
	Mileage        float64            `json:"mileage" bson:"mileage"` // in kilometers
	FuelLevels     FuelLevels         `json:"fuel_levels" bson:"fuel_levels"`
	Defects        []Defect           `json:"defects" bson:"defects"`
	Status         InspectionStatus   `json:"status" bson:"status"`
	Score          int                `json:"score" bson:"score"`
	ReviewedBy     string             `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time         `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	ReviewNotes    string             `json:"review_notes,omitempty" bson:"review_notes,omitempty"`
	InterventionID *string            `json:"intervention_id" bson:"intervention_id"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// InspectionReview is the set of fields written when an inspection is validated.
type InspectionReview struct {
	ReviewedBy     string
	ReviewedAt     time.Time
	ReviewNotes    string
	InterventionID *string
	Defects        []Defect
}
