package detection

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"janken-relay-go/internal/models"
	"janken-relay-go/internal/vision"
)

// LandmarkSource finds hands in a compressed image.
type LandmarkSource interface {
	DetectLandmarks(ctx context.Context, jpeg []byte) ([]models.HandLandmarks, error)
}

// Service detects hands in decoded frames and renders the landmark overlay.
type Service struct {
	source LandmarkSource
	codec  *vision.Codec
}

func NewService(source LandmarkSource, codec *vision.Codec) *Service {
	return &Service{source: source, codec: codec}
}

// DetectHands returns the annotated overlay and the first detected hand, or a
// nil hand when none was found. The caller owns the returned frame.
func (s *Service) DetectHands(ctx context.Context, frame models.Frame) (models.Frame, *models.HandLandmarks, error) {
	f, ok := frame.(*vision.Frame)
	if !ok {
		return nil, nil, fmt.Errorf("detection: unsupported frame type %T", frame)
	}

	payload := f.Source
	if len(payload) == 0 {
		encoded, err := s.codec.Encode(f)
		if err != nil {
			return nil, nil, err
		}
		payload = encoded
	}

	hands, err := s.source.DetectLandmarks(ctx, payload)
	if err != nil {
		return nil, nil, err
	}

	var hand *models.HandLandmarks
	if len(hands) > 0 {
		hand = &hands[0]
		if len(hands) > 1 {
			log.Debug().Int("hands", len(hands)).Msg("Multiple hands detected, using the first")
		}
	}

	annotated, err := vision.Annotate(f, hand)
	if err != nil {
		return nil, nil, err
	}
	return annotated, hand, nil
}
