package db

import (
	"context"
	"errors"
	"time"

	"github.com/ukydev/fleet-inspection/internal/models"
)

var (
	ErrInspectionNotFound   = errors.New("inspection not found")
	ErrInspectionNotPending = errors.New("inspection is no longer awaiting validation")
	ErrInterventionNotFound = errors.New("intervention not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidID            = errors.New("invalid id")

	errNilCollection = errors.New("mongo collection is nil")
)

// InspectionCollection defines the interface for inspection data operations.
type InspectionCollection interface {
	InsertInspection(ctx context.Context, inspection models.Inspection) (string, error)
	FindInspectionByID(ctx context.Context, id string) (*models.Inspection, error)
	FindLatestInspection(ctx context.Context, vehicleID string) (*models.Inspection, error)
	FindInspectionsSince(ctx context.Context, vehicleID string, since time.Time) ([]models.Inspection, error)
	// MarkInspectionValidated applies the review only if the inspection is still
	// awaiting validation; otherwise it returns ErrInspectionNotPending.
	MarkInspectionValidated(ctx context.Context, id string, review models.InspectionReview) error
}

// InterventionCollection defines the interface for intervention data operations.
type InterventionCollection interface {
	InsertIntervention(ctx context.Context, intervention models.Intervention) (string, error)
	DeleteIntervention(ctx context.Context, id string) error
}
