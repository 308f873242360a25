// Package vitals holds the health-reading decision logic: the rule-based
// threshold engine and the optional pre-trained classifier on top of it.
package vitals

import (
	"fmt"
	"strings"
)

// DefaultAge is assumed when an athlete's age is unknown.
const DefaultAge = 25

// NormalMessage is the exact alert text for a reading with no violations.
const NormalMessage = "Normal readings"

// Verdict is the immutable outcome attached to a reading at ingestion.
type Verdict struct {
	IsAbnormal   bool
	AlertMessage string
}

// normalBand is the age-adjusted normal range for both metrics. A value
// is normal when low <= v < high.
type normalBand struct {
	maxAge   int // exclusive upper bound of the age bucket
	hrLow    float64
	hrHigh   float64
	tempLow  float64
	tempHigh float64
}

// Bucket bounds mirror the discrete age groups the training data was
// curated in: young athletes, adults, mature, seniors.
var bands = []normalBand{
	{maxAge: 26, hrLow: 45, hrHigh: 160, tempLow: 35.8, tempHigh: 38.5},
	{maxAge: 41, hrLow: 50, hrHigh: 155, tempLow: 35.9, tempHigh: 38.2},
	{maxAge: 61, hrLow: 55, hrHigh: 145, tempLow: 36.0, tempHigh: 37.9},
	{maxAge: 1 << 30, hrLow: 60, hrHigh: 130, tempLow: 36.1, tempHigh: 37.6},
}

func bandFor(age int) normalBand {
	for _, b := range bands {
		if age < b.maxAge {
			return b
		}
	}
	return bands[len(bands)-1]
}

// Evaluate maps a heart-rate/temperature pair to a verdict using the
// age-adjusted bands. Pure and total: any real-valued input produces a
// verdict, heart rate is checked before temperature, and within each
// metric "too high" before "too low".
func Evaluate(heartRate, temperature float64, age int) Verdict {
	b := bandFor(age)

	var alerts []string

	if heartRate >= b.hrHigh {
		alerts = append(alerts, fmt.Sprintf("High heart rate (%.0f BPM)", heartRate))
	} else if heartRate < b.hrLow {
		alerts = append(alerts, fmt.Sprintf("Low heart rate (%.0f BPM)", heartRate))
	}

	if temperature >= b.tempHigh {
		alerts = append(alerts, fmt.Sprintf("High temperature (%.1f °C)", temperature))
	} else if temperature < b.tempLow {
		alerts = append(alerts, fmt.Sprintf("Low temperature (%.1f °C)", temperature))
	}

	if len(alerts) == 0 {
		return Verdict{IsAbnormal: false, AlertMessage: NormalMessage}
	}
	return Verdict{IsAbnormal: true, AlertMessage: strings.Join(alerts, " | ")}
}
