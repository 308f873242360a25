package models

import "time"

// Reading is one heart-rate/temperature sample attributed to an athlete.
// The verdict fields are computed once at ingestion and never rewritten,
// even if thresholds change later.
type Reading struct {
	ID           string    `json:"id"`
	AthleteID    int       `json:"athlete_id"`
	HeartRate    float64   `json:"heart_rate"`
	Temperature  float64   `json:"temperature"`
	IsAbnormal   bool      `json:"is_abnormal"`
	AlertMessage string    `json:"alert_message"`
	RecordedAt   time.Time `json:"timestamp"`
}
