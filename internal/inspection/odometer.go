package inspection

// OdometerReason names the kind of odometer anomaly detected.
type OdometerReason string

const (
	OdometerRegression OdometerReason = "mileage_regression"
	OdometerJump       OdometerReason = "implausible_jump"
	OdometerStagnation OdometerReason = "stagnation"
)

const (
	maxDailyKm          = 300.0
	jumpTolerance       = 2.0
	stagnationMinKm     = 10.0
	stagnationAfterDays = 7.0
)

// OdometerCheck is the advisory result of comparing two odometer readings.
type OdometerCheck struct {
	IsAnomaly bool           `json:"is_anomaly" yaml:"is_anomaly"`
	Reason    OdometerReason `json:"reason,omitempty" yaml:"reason,omitempty"`
	Delta     float64        `json:"delta" yaml:"delta"`
}

// CheckOdometer compares the current reading with the previous one, days apart.
// Intervals shorter than a day are treated as one day.
func CheckOdometer(previous, current, days float64) OdometerCheck {
	delta := current - previous
	check := OdometerCheck{Delta: delta}

	if current < previous {
		check.IsAnomaly = true
		check.Reason = OdometerRegression
		return check
	}

	span := days
	if span < 1 {
		span = 1
	}
	if delta > jumpTolerance*maxDailyKm*span {
		check.IsAnomaly = true
		check.Reason = OdometerJump
		return check
	}

	if delta < stagnationMinKm && days > stagnationAfterDays {
		check.IsAnomaly = true
		check.Reason = OdometerStagnation
	}
	return check
}
