package inspection

import (
	"time"

	"github.com/ukydev/fleet-inspection/internal/models"
)

// RiskLevel is the tier returned by the risk estimator.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// RiskWindow is how far back inspections are considered.
const RiskWindow = 180 * 24 * time.Hour

// RiskEstimate is an advisory breakdown prediction for a vehicle.
type RiskEstimate struct {
	Level              RiskLevel `json:"level" yaml:"level"`
	Probability        float64   `json:"probability" yaml:"probability"`
	CriticalRate       float64   `json:"critical_rate" yaml:"critical_rate"`
	WarningRate        float64   `json:"warning_rate" yaml:"warning_rate"`
	InspectionCount    int       `json:"inspection_count" yaml:"inspection_count"`
	RecommendedActions []string  `json:"recommended_actions" yaml:"recommended_actions"`
	EstimatedCost      float64   `json:"estimated_cost" yaml:"estimated_cost"` // in EUR
}

type riskTier struct {
	probability float64
	cost        float64
	actions     []string
}

var tiers = map[RiskLevel]riskTier{
	RiskHigh: {
		probability: 0.85,
		cost:        2500,
		actions: []string{
			"Immobilize the vehicle until a full workshop check",
			"Schedule brake, steering and tire inspection",
			"Review recurring critical defects with the driver",
		},
	},
	RiskMedium: {
		probability: 0.45,
		cost:        800,
		actions: []string{
			"Plan preventive maintenance within 30 days",
			"Monitor recurring warning defects",
		},
	},
	RiskLow: {
		probability: 0.15,
		cost:        150,
		actions: []string{
			"Continue the regular inspection schedule",
		},
	},
}

// EstimateRisk computes the defect rates of the inspections created in the
// RiskWindow before now and maps them to a risk tier.
func EstimateRisk(inspections []models.Inspection, now time.Time) RiskEstimate {
	since := now.Add(-RiskWindow)
	var count, withCritical, withWarning int
	for _, insp := range inspections {
		if insp.CreatedAt.Before(since) || insp.CreatedAt.After(now) {
			continue
		}
		count++
		hasCritical, hasWarning := false, false
		for _, d := range insp.Defects {
			switch EffectiveSeverity(d) {
			case models.SeverityCritical:
				hasCritical = true
			case models.SeverityWarning:
				hasWarning = true
			}
		}
		if hasCritical {
			withCritical++
		}
		if hasWarning {
			withWarning++
		}
	}

	if count == 0 {
		return RiskEstimate{
			Level:              RiskLow,
			Probability:        0.05,
			RecommendedActions: []string{"No recent inspection: schedule one"},
		}
	}

	est := RiskEstimate{
		CriticalRate:    float64(withCritical) / float64(count),
		WarningRate:     float64(withWarning) / float64(count),
		InspectionCount: count,
	}
	switch {
	case est.CriticalRate > 0.3:
		est.Level = RiskHigh
	case est.WarningRate > 0.5 || est.CriticalRate > 0.1:
		est.Level = RiskMedium
	default:
		est.Level = RiskLow
	}
	tier := tiers[est.Level]
	est.Probability = tier.probability
	est.EstimatedCost = tier.cost
	est.RecommendedActions = append([]string(nil), tier.actions...)
	return est
}
