package gesture

import (
	"context"
	"fmt"

	"janken-relay-go/internal/models"
)

// Codec converts compressed payloads to frames and back.
type Codec interface {
	Decode(data []byte) (models.Frame, error)
	Encode(frame models.Frame) ([]byte, error)
}

// HandDetector finds hands in a frame and returns an annotated copy. hand is
// nil when no hand is present.
type HandDetector interface {
	DetectHands(ctx context.Context, frame models.Frame) (annotated models.Frame, hand *models.HandLandmarks, err error)
}

// Classifier maps an angle vector to a gesture label.
type Classifier interface {
	Classify(ctx context.Context, angles models.AngleVector) (string, error)
}

// FeatureExtractor turns landmarks into the classifier's angle vector.
type FeatureExtractor func(hand *models.HandLandmarks) (models.AngleVector, error)

// Recognizer runs a single payload through decode, detection, feature
// extraction, classification and encode.
type Recognizer struct {
	codec      Codec
	detector   HandDetector
	classifier Classifier
	extract    FeatureExtractor
}

func NewRecognizer(codec Codec, detector HandDetector, classifier Classifier, extract FeatureExtractor) *Recognizer {
	return &Recognizer{
		codec:      codec,
		detector:   detector,
		classifier: classifier,
		extract:    extract,
	}
}

// Process recognizes the gesture in payload and returns the encoded annotated
// frame. Decode failures wrap models.ErrFrameDecode.
func (r *Recognizer) Process(ctx context.Context, payload []byte) ([]byte, models.Recognition, error) {
	var rec models.Recognition

	frame, err := r.codec.Decode(payload)
	if err != nil {
		return nil, rec, err
	}
	defer frame.Close()

	annotated, hand, err := r.detector.DetectHands(ctx, frame)
	if err != nil {
		return nil, rec, fmt.Errorf("detect hands: %w", err)
	}
	defer annotated.Close()

	if hand != nil {
		angles, err := r.extract(hand)
		if err != nil {
			return nil, rec, fmt.Errorf("extract angles: %w", err)
		}
		label, err := r.classifier.Classify(ctx, angles)
		if err != nil {
			return nil, rec, fmt.Errorf("classify: %w", err)
		}
		rec = models.Recognition{
			HandDetected: true,
			Gesture:      label,
			Landmarks:    hand,
			Angles:       angles,
		}
	}

	out, err := r.codec.Encode(annotated)
	if err != nil {
		return nil, rec, fmt.Errorf("encode frame: %w", err)
	}
	return out, rec, nil
}
