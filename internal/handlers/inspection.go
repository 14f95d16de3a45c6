package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-inspection/internal/db"
	"github.com/ukydev/fleet-inspection/internal/inspection"
	"github.com/ukydev/fleet-inspection/internal/metrics"
	"github.com/ukydev/fleet-inspection/internal/middleware"
	"github.com/ukydev/fleet-inspection/internal/models"
	"github.com/ukydev/fleet-inspection/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxBodyBytes = 1 << 20

// Validator runs the reviewer workflow.
type Validator interface {
	Validate(ctx context.Context, reviewer *models.Claims, req validation.Request) (*validation.Result, error)
}

// InspectionHandler serves inspection submission, lookup, validation and risk.
type InspectionHandler struct {
	inspections db.InspectionCollection
	validator   Validator
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewInspectionHandler creates a new inspection handler
func NewInspectionHandler(inspections db.InspectionCollection, validator Validator, m *metrics.Metrics) *InspectionHandler {
	return &InspectionHandler{
		inspections: inspections,
		validator:   validator,
		metrics:     m,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type submitInspectionRequest struct {
	VehicleID      string            `json:"vehicle_id"`
	InspectionType string            `json:"inspection_type"`
	Mileage        float64           `json:"mileage"`
	FuelLevels     models.FuelLevels `json:"fuel_levels"`
	Defects        []models.Defect   `json:"defects"`
}

type inspectionResponse struct {
	Inspection *models.Inspection        `json:"inspection"`
	Assessment inspection.Assessment     `json:"assessment"`
	Odometer   *inspection.OdometerCheck `json:"odometer,omitempty"`
}

// Submit records a new inspection with classified defects and its initial status.
func (h *InspectionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitInspectionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	req.VehicleID = strings.TrimSpace(req.VehicleID)
	if req.VehicleID == "" {
		http.Error(w, "vehicle_id is required", http.StatusBadRequest)
		return
	}
	if req.Mileage < 0 {
		http.Error(w, "mileage must not be negative", http.StatusBadRequest)
		return
	}
	for _, d := range req.Defects {
		if strings.TrimSpace(d.Category) == "" || strings.TrimSpace(d.Description) == "" {
			http.Error(w, "every defect needs a category and a description", http.StatusBadRequest)
			return
		}
	}

	now := h.now()
	insp := models.Inspection{
		VehicleID:      req.VehicleID,
		InspectionType: req.InspectionType,
		Mileage:        req.Mileage,
		FuelLevels:     req.FuelLevels,
		Defects:        req.Defects,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if insp.Defects == nil {
		insp.Defects = []models.Defect{}
	}
	for i := range insp.Defects {
		insp.Defects[i].Repaired = false
		insp.Defects[i].RepairDescription = ""
	}
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		insp.InspectorID = claims.UserID
	}

	assessment := inspection.Prepare(&insp)
	odometer := h.checkOdometer(r, &insp)

	id, err := h.inspections.InsertInspection(r.Context(), insp)
	if err != nil {
		log.WithError(err).WithField("vehicle_id", insp.VehicleID).Error("Failed to save inspection")
		http.Error(w, "Failed to save inspection", http.StatusInternalServerError)
		return
	}
	insp.ID, _ = primitive.ObjectIDFromHex(id)
	h.metrics.ObserveSubmission(string(insp.Status), insp.Score)

	log.WithFields(log.Fields{
		"inspection_id": id,
		"vehicle_id":    insp.VehicleID,
		"status":        insp.Status,
		"score":         insp.Score,
	}).Info("Inspection submitted")

	writeJSON(w, http.StatusCreated, inspectionResponse{Inspection: &insp, Assessment: assessment, Odometer: odometer})
}

// checkOdometer compares the new reading with the vehicle's latest inspection.
// The result is advisory and never blocks the submission.
func (h *InspectionHandler) checkOdometer(r *http.Request, insp *models.Inspection) *inspection.OdometerCheck {
	previous, err := h.inspections.FindLatestInspection(r.Context(), insp.VehicleID)
	if err != nil {
		if !errors.Is(err, db.ErrInspectionNotFound) {
			log.WithError(err).WithField("vehicle_id", insp.VehicleID).Warn("Odometer check skipped")
		}
		return nil
	}

	days := insp.CreatedAt.Sub(previous.CreatedAt).Hours() / 24
	check := inspection.CheckOdometer(previous.Mileage, insp.Mileage, days)
	if check.IsAnomaly {
		h.metrics.ObserveOdometerAnomaly(string(check.Reason))
		log.WithFields(log.Fields{
			"vehicle_id": insp.VehicleID,
			"reason":     check.Reason,
			"previous":   previous.Mileage,
			"current":    insp.Mileage,
		}).Warn("Odometer anomaly detected")
	}
	return &check
}

// Get returns an inspection with its recomputed assessment.
func (h *InspectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	insp, err := h.inspections.FindInspectionByID(r.Context(), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, db.ErrInspectionNotFound):
			http.Error(w, "Inspection not found", http.StatusNotFound)
		case errors.Is(err, db.ErrInvalidID):
			http.Error(w, "Invalid inspection id", http.StatusBadRequest)
		default:
			log.WithError(err).Error("Failed to load inspection")
			http.Error(w, "Failed to load inspection", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, inspectionResponse{Inspection: insp, Assessment: inspection.Resolve(insp.Defects)})
}

type validateInspectionRequest struct {
	VehicleID string                `json:"vehicle_id"`
	Defects   []validation.Decision `json:"defects"`
}

// Validate applies a reviewer's repair decisions to an inspection.
func (h *InspectionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateInspectionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	claims, _ := middleware.GetUserFromContext(r.Context())
	result, err := h.validator.Validate(r.Context(), claims, validation.Request{
		InspectionID: r.PathValue("id"),
		VehicleID:    req.VehicleID,
		Decisions:    req.Defects,
	})
	if err != nil {
		writeValidationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeValidationError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var missing *validation.MissingRepairDescriptionError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, validation.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, validation.ErrInspectionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, validation.ErrAlreadyValidated), errors.Is(err, validation.ErrNotValidatable):
		status = http.StatusConflict
	case errors.As(err, &missing):
		status = http.StatusUnprocessableEntity
		resp.DefectIndex = &missing.Index
	case errors.Is(err, validation.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, validation.ErrDownstreamWrite):
		status = http.StatusBadGateway
		resp.Error = validation.ErrDownstreamWrite.Error()
	}
	writeJSON(w, status, resp)
}

type riskResponse struct {
	VehicleID string `json:"vehicle_id"`
	inspection.RiskEstimate
}

// Risk estimates the breakdown risk of a vehicle from its recent inspections.
func (h *InspectionHandler) Risk(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.PathValue("id")
	if vehicleID == "" {
		http.Error(w, "vehicle id is required", http.StatusBadRequest)
		return
	}

	now := h.now()
	inspections, err := h.inspections.FindInspectionsSince(r.Context(), vehicleID, now.Add(-inspection.RiskWindow))
	if err != nil {
		log.WithError(err).WithField("vehicle_id", vehicleID).Error("Failed to load inspections for risk")
		http.Error(w, "Failed to load inspections", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, riskResponse{VehicleID: vehicleID, RiskEstimate: inspection.EstimateRisk(inspections, now)})
}
