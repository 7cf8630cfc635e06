package models

import "time"

// AngleVector is the classifier input: one joint angle in degrees per
// consecutive landmark triplet of each finger chain.
type AngleVector []float64

// Recognition is the outcome of running one frame through detection and classification.
type Recognition struct {
	HandDetected bool
	Gesture      string
	Landmarks    *HandLandmarks
	Angles       AngleVector
}

// PredictionEvent is published whenever a stream classifies a gesture.
type PredictionEvent struct {
	ClientID  string    `json:"client_id"`
	Gesture   string    `json:"gesture"`
	Timestamp time.Time `json:"timestamp"`
}
