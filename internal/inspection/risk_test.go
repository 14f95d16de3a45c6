package inspection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/fleet-inspection/internal/models"
)

var riskNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func inspectionAt(daysAgo int, severities ...models.Severity) models.Inspection {
	return models.Inspection{
		CreatedAt: riskNow.AddDate(0, 0, -daysAgo),
		Defects:   defectsOf(severities...),
	}
}

func TestEstimateRisk_NoInspections(t *testing.T) {
	est := EstimateRisk(nil, riskNow)
	assert.Equal(t, RiskLow, est.Level)
	assert.Equal(t, 0.05, est.Probability)
	assert.Zero(t, est.InspectionCount)
	assert.NotEmpty(t, est.RecommendedActions)
}

func TestEstimateRisk_IgnoresOldInspections(t *testing.T) {
	est := EstimateRisk([]models.Inspection{
		inspectionAt(200, models.SeverityCritical),
		inspectionAt(365, models.SeverityCritical),
	}, riskNow)
	assert.Equal(t, RiskLow, est.Level)
	assert.Zero(t, est.InspectionCount)
}

func TestEstimateRisk_Tiers(t *testing.T) {
	tests := []struct {
		name        string
		inspections []models.Inspection
		level       RiskLevel
	}{
		{
			name: "high critical rate",
			inspections: []models.Inspection{
				inspectionAt(1, models.SeverityCritical),
				inspectionAt(10, models.SeverityCritical, models.SeverityCritical),
				inspectionAt(20),
			},
			level: RiskHigh,
		},
		{
			name: "warning rate over half",
			inspections: []models.Inspection{
				inspectionAt(1, models.SeverityWarning),
				inspectionAt(2, models.SeverityWarning),
				inspectionAt(3),
			},
			level: RiskMedium,
		},
		{
			name: "critical rate over ten percent",
			inspections: []models.Inspection{
				inspectionAt(1, models.SeverityCritical),
				inspectionAt(2), inspectionAt(3), inspectionAt(4), inspectionAt(5),
			},
			level: RiskMedium,
		},
		{
			name: "clean history",
			inspections: []models.Inspection{
				inspectionAt(1, models.SeverityMinor),
				inspectionAt(30),
				inspectionAt(90, models.SeverityWarning),
			},
			level: RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := EstimateRisk(tt.inspections, riskNow)
			assert.Equal(t, tt.level, est.Level)
			assert.Equal(t, tiers[tt.level].probability, est.Probability)
			assert.Equal(t, tiers[tt.level].cost, est.EstimatedCost)
			assert.Equal(t, len(tt.inspections), est.InspectionCount)
		})
	}
}

func TestEstimateRisk_Rates(t *testing.T) {
	est := EstimateRisk([]models.Inspection{
		inspectionAt(1, models.SeverityCritical, models.SeverityWarning),
		inspectionAt(2, models.SeverityWarning, models.SeverityWarning),
		inspectionAt(3),
		inspectionAt(4),
	}, riskNow)
	assert.InDelta(t, 0.25, est.CriticalRate, 1e-9)
	assert.InDelta(t, 0.5, est.WarningRate, 1e-9)
	assert.Equal(t, RiskMedium, est.Level)
}
