// Package validation runs the reviewer workflow that resolves an inspection's
// defects and moves it to its terminal validated state.
package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-inspection/internal/db"
	"github.com/ukydev/fleet-inspection/internal/inspection"
	"github.com/ukydev/fleet-inspection/internal/metrics"
	"github.com/ukydev/fleet-inspection/internal/models"
	"github.com/ukydev/fleet-inspection/internal/notify"
)

// Review note markers written on validated inspections.
const (
	ReviewNoteConform   = "conform"
	ReviewNoteAnomalies = "anomalies_reported"
)

// InspectionStore is the part of the inspection collection the workflow needs.
type InspectionStore interface {
	FindInspectionByID(ctx context.Context, id string) (*models.Inspection, error)
	MarkInspectionValidated(ctx context.Context, id string, review models.InspectionReview) error
}

// InterventionStore creates maintenance interventions, and removes them when
// the review they belong to cannot be committed.
type InterventionStore interface {
	InsertIntervention(ctx context.Context, intervention models.Intervention) (string, error)
	DeleteIntervention(ctx context.Context, id string) error
}

// Decision is the reviewer's verdict on one defect, in defect order.
type Decision struct {
	Repaired          bool   `json:"repaired"`
	RepairDescription string `json:"repair_description,omitempty"`
}

// Request is a reviewer submission for one inspection.
type Request struct {
	InspectionID string
	VehicleID    string
	Decisions    []Decision
}

// Result reports what a successful validation did.
type Result struct {
	Success             bool   `json:"success"`
	InterventionCreated bool   `json:"intervention_created"`
	InterventionID      string `json:"intervention_id,omitempty"`
}

// Workflow validates inspections.
type Workflow struct {
	inspections   InspectionStore
	interventions InterventionStore
	notifier      notify.Notifier
	metrics       *metrics.Metrics
	now           func() time.Time
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithClock overrides the time source used for review timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

// NewWorkflow creates a workflow. A nil notifier drops events; nil metrics record nothing.
func NewWorkflow(inspections InspectionStore, interventions InterventionStore, notifier notify.Notifier, m *metrics.Metrics, opts ...Option) *Workflow {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	w := &Workflow{
		inspections:   inspections,
		interventions: interventions,
		notifier:      notifier,
		metrics:       m,
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Validate applies the reviewer's decisions. Either the inspection is
// validated (with at most one intervention created for all unrepaired
// defects) or nothing is changed.
func (w *Workflow) Validate(ctx context.Context, reviewer *models.Claims, req Request) (*Result, error) {
	result, err := w.validate(ctx, reviewer, req)
	w.metrics.ObserveValidation(outcomeOf(err))
	if err != nil {
		log.WithError(err).WithField("inspection_id", req.InspectionID).Warn("Inspection validation refused")
		return nil, err
	}
	return result, nil
}

func (w *Workflow) validate(ctx context.Context, reviewer *models.Claims, req Request) (*Result, error) {
	if !reviewer.HasPermission(models.PermValidateInspection) {
		return nil, ErrUnauthorized
	}

	insp, err := w.inspections.FindInspectionByID(ctx, req.InspectionID)
	switch {
	case errors.Is(err, db.ErrInspectionNotFound):
		return nil, ErrInspectionNotFound
	case errors.Is(err, db.ErrInvalidID):
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	case err != nil:
		return nil, fmt.Errorf("%w: load inspection: %w", ErrDownstreamWrite, err)
	}

	if insp.Status == models.InspectionStatusValidated {
		return nil, ErrAlreadyValidated
	}
	if !insp.Status.CanTransitionTo(models.InspectionStatusValidated) {
		return nil, fmt.Errorf("%w: status %q", ErrNotValidatable, insp.Status)
	}

	defects, err := applyDecisions(insp, req)
	if err != nil {
		return nil, err
	}

	unrepaired := make([]models.Defect, 0, len(defects))
	for _, d := range defects {
		if !d.Repaired {
			unrepaired = append(unrepaired, d)
		}
	}

	var interventionID *string
	if len(unrepaired) > 0 {
		id, err := w.interventions.InsertIntervention(ctx, buildIntervention(insp, unrepaired))
		if err != nil {
			return nil, fmt.Errorf("%w: create intervention: %w", ErrDownstreamWrite, err)
		}
		interventionID = &id
	}

	review := models.InspectionReview{
		ReviewedBy:     reviewerIdentity(reviewer),
		ReviewedAt:     w.now(),
		ReviewNotes:    ReviewNoteConform,
		InterventionID: interventionID,
		Defects:        defects,
	}
	if len(unrepaired) > 0 {
		review.ReviewNotes = ReviewNoteAnomalies
	}

	if err := w.inspections.MarkInspectionValidated(ctx, req.InspectionID, review); err != nil {
		if errors.Is(err, db.ErrInspectionNotPending) {
			w.discardIntervention(ctx, interventionID)
			return nil, ErrAlreadyValidated
		}
		if err := w.reconcile(ctx, req.InspectionID, interventionID, err); err != nil {
			return nil, err
		}
	}

	result := &Result{Success: true}
	if interventionID != nil {
		result.InterventionCreated = true
		result.InterventionID = *interventionID
		w.metrics.ObserveIntervention()
	}

	log.WithFields(log.Fields{
		"inspection_id":   req.InspectionID,
		"vehicle_id":      insp.VehicleID,
		"reviewed_by":     review.ReviewedBy,
		"unrepaired":      len(unrepaired),
		"intervention_id": result.InterventionID,
	}).Info("Inspection validated")

	w.publish(ctx, insp, len(unrepaired), result.InterventionID, review.ReviewedAt)
	return result, nil
}

// applyDecisions checks the submission as a whole and returns the defects
// with the reviewer's decisions merged in.
func applyDecisions(insp *models.Inspection, req Request) ([]models.Defect, error) {
	if req.VehicleID != "" && req.VehicleID != insp.VehicleID {
		return nil, fmt.Errorf("%w: vehicle %q does not match inspection", ErrInvalidRequest, req.VehicleID)
	}
	if len(req.Decisions) != len(insp.Defects) {
		return nil, fmt.Errorf("%w: %d decisions for %d defects", ErrInvalidRequest, len(req.Decisions), len(insp.Defects))
	}

	defects := make([]models.Defect, len(insp.Defects))
	for i, d := range insp.Defects {
		decision := req.Decisions[i]
		note := strings.TrimSpace(decision.RepairDescription)
		if decision.Repaired && note == "" {
			return nil, &MissingRepairDescriptionError{Index: i}
		}
		d.Severity = inspection.EffectiveSeverity(d)
		d.Repaired = decision.Repaired
		d.RepairDescription = ""
		if decision.Repaired {
			d.RepairDescription = note
		}
		defects[i] = d
	}
	return defects, nil
}

// buildIntervention aggregates every unrepaired defect into one work order.
func buildIntervention(insp *models.Inspection, unrepaired []models.Defect) models.Intervention {
	parts := make([]string, 0, len(unrepaired))
	worst := models.SeverityNone
	for _, d := range unrepaired {
		part := fmt.Sprintf("[%s] %s", d.Category, strings.TrimSpace(d.Description))
		if loc := strings.TrimSpace(d.Location); loc != "" {
			part += " (" + loc + ")"
		}
		parts = append(parts, part)
		if d.Severity.Rank() > worst.Rank() {
			worst = d.Severity
		}
	}
	return models.Intervention{
		VehicleID:    insp.VehicleID,
		InspectionID: insp.ID.Hex(),
		Description:  strings.Join(parts, "; "),
		Status:       models.InterventionStatusPending,
		Priority:     models.PriorityForSeverity(worst),
	}
}

// reconcile settles an update that failed with an ambiguous error, since the
// server may have committed it anyway. The intervention is removed only once
// the stored inspection shows it does not reference it. A nil return means
// the review was committed.
func (w *Workflow) reconcile(ctx context.Context, inspectionID string, interventionID *string, cause error) error {
	failed := fmt.Errorf("%w: update inspection: %w", ErrDownstreamWrite, cause)
	if interventionID == nil {
		return failed
	}

	stored, err := w.inspections.FindInspectionByID(context.WithoutCancel(ctx), inspectionID)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"inspection_id":   inspectionID,
			"intervention_id": *interventionID,
		}).Error("Cannot confirm inspection update; keeping intervention")
		return failed
	}

	if stored.Status == models.InspectionStatusValidated &&
		stored.InterventionID != nil && *stored.InterventionID == *interventionID {
		log.WithError(cause).WithField("inspection_id", inspectionID).Warn("Inspection update reported an error but was committed")
		return nil
	}

	w.discardIntervention(ctx, interventionID)
	if stored.Status == models.InspectionStatusValidated {
		return ErrAlreadyValidated
	}
	return failed
}

// discardIntervention removes an intervention created for a review that could
// not be committed.
func (w *Workflow) discardIntervention(ctx context.Context, id *string) {
	if id == nil {
		return
	}
	if err := w.interventions.DeleteIntervention(context.WithoutCancel(ctx), *id); err != nil {
		log.WithError(err).WithField("intervention_id", *id).Error("Failed to remove orphan intervention")
	}
}

func (w *Workflow) publish(ctx context.Context, insp *models.Inspection, anomalies int, interventionID string, at time.Time) {
	event := notify.NewWorkCompletedEvent(insp.ID.Hex(), insp.VehicleID, anomalies, interventionID, at)
	if err := w.notifier.Notify(ctx, event); err != nil {
		log.WithError(err).WithField("event_id", event.ID).Warn("Failed to publish inspection event")
	}
}

func reviewerIdentity(c *models.Claims) string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Username
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeValidated
	case errors.Is(err, ErrAlreadyValidated):
		return metrics.OutcomeConflict
	case errors.Is(err, ErrDownstreamWrite):
		return metrics.OutcomeDownstreamError
	default:
		return metrics.OutcomeRejected
	}
}
