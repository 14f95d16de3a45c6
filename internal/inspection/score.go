package inspection

import "github.com/ukydev/fleet-inspection/internal/models"

// Penalties subtracted from a perfect score of 100 for each defect.
var penalties = map[models.Severity]int{
	models.SeverityCritical: 30,
	models.SeverityWarning:  10,
	models.SeverityMinor:    2,
	models.SeverityNone:     0,
}

// MaxScore is the score of an inspection without defects.
const MaxScore = 100

// Score computes the 0-100 health score of a defect list.
func Score(defects []models.Defect) int {
	total := 0
	for _, d := range defects {
		total += penalties[EffectiveSeverity(d)]
	}
	return clampScore(MaxScore - total)
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}
