package inspection

import "github.com/ukydev/fleet-inspection/internal/models"

// HealthStatus is the advisory classification of an inspection.
type HealthStatus string

const (
	HealthDanger  HealthStatus = "danger"
	HealthWarning HealthStatus = "warning"
	HealthOK      HealthStatus = "ok"
)

const (
	dangerThreshold  = 50
	warningThreshold = 80
)

// Assessment summarizes the defects of an inspection.
type Assessment struct {
	Status        HealthStatus `json:"status" yaml:"status"`
	Score         int          `json:"score" yaml:"score"`
	CriticalCount int          `json:"critical_count" yaml:"critical_count"`
	WarningCount  int          `json:"warning_count" yaml:"warning_count"`
	MinorCount    int          `json:"minor_count" yaml:"minor_count"`
}

// InspectionStatus maps the advisory status to the persisted lifecycle state.
// Nothing maps to validated: that transition needs a reviewer.
func (a Assessment) InspectionStatus() models.InspectionStatus {
	if a.Status == HealthDanger {
		return models.InspectionStatusRequiresAction
	}
	return models.InspectionStatusPendingReview
}

// Resolve counts defects per severity and derives the advisory status.
func Resolve(defects []models.Defect) Assessment {
	a := Assessment{Score: Score(defects)}
	for _, d := range defects {
		switch EffectiveSeverity(d) {
		case models.SeverityCritical:
			a.CriticalCount++
		case models.SeverityWarning:
			a.WarningCount++
		case models.SeverityMinor:
			a.MinorCount++
		}
	}

	switch {
	case a.CriticalCount > 0 || a.Score < dangerThreshold:
		a.Status = HealthDanger
	case a.WarningCount > 0 || a.Score < warningThreshold:
		a.Status = HealthWarning
	default:
		a.Status = HealthOK
	}
	return a
}

// Prepare classifies a newly submitted inspection in place: missing severities
// are filled and the initial status and score are set.
func Prepare(insp *models.Inspection) Assessment {
	FillSeverities(insp.Defects)
	a := Resolve(insp.Defects)
	insp.Status = a.InspectionStatus()
	insp.Score = a.Score
	return a
}
