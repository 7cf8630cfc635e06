package gesture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"janken-relay-go/internal/logging"
	"janken-relay-go/internal/models"
	"janken-relay-go/internal/relay"
)

// PredictionSink receives every gesture a stream classifies.
type PredictionSink interface {
	PublishPrediction(evt models.PredictionEvent) error
}

// EmitFunc writes one encoded frame downstream. An empty frame is the
// keep-alive placeholder sent when nothing could be processed.
type EmitFunc func(frame []byte) error

type StreamConfig struct {
	FrameTimeout time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
}

// StreamStats summarizes one stream after it ends.
type StreamStats struct {
	Frames       int
	Placeholders int
	Predictions  int
	Errors       int
}

// Streamer runs the per-client consumer loop that feeds the video stream.
type Streamer struct {
	registry   *relay.Registry
	recognizer *Recognizer
	sink       PredictionSink
	cfg        StreamConfig
	logger     zerolog.Logger
}

// NewStreamer creates a streamer. sink may be nil.
func NewStreamer(registry *relay.Registry, recognizer *Recognizer, sink PredictionSink, cfg StreamConfig) *Streamer {
	return &Streamer{
		registry:   registry,
		recognizer: recognizer,
		sink:       sink,
		cfg:        cfg,
		logger:     log.Logger,
	}
}

// WithLogger sets the base logger for stream events.
func (s *Streamer) WithLogger(logger zerolog.Logger) *Streamer {
	s.logger = logger
	return s
}

// Run streams processed frames for clientID through emit until ctx ends, emit
// fails or the channel is closed. It returns relay.ErrClientNotFound, before
// emitting anything, if no channel appears within the retry budget. Once the
// channel is found it is removed from the registry on every exit path, unless
// a newer channel has replaced it under the same id.
func (s *Streamer) Run(ctx context.Context, clientID string, emit EmitFunc) (StreamStats, error) {
	var stats StreamStats
	logger := logging.WithClient(s.logger, clientID)

	ch, ok := s.registry.WaitForCreation(ctx, clientID, s.cfg.MaxRetries, s.cfg.RetryDelay)
	if !ok {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		return stats, relay.ErrClientNotFound
	}
	detach := ch.Attach()
	defer func() {
		detach()
		s.registry.RemoveChannel(ch)
	}()

	logger.Info().Msg("Stream started")

	for {
		payload, err := ch.Pop(ctx, s.cfg.FrameTimeout)
		switch {
		case err == nil:
		case errors.Is(err, relay.ErrFrameTimeout):
			stats.Placeholders++
			if err := emit(nil); err != nil {
				return stats, fmt.Errorf("emit placeholder: %w", err)
			}
			continue
		case errors.Is(err, relay.ErrChannelClosed):
			logger.Info().Msg("Channel closed, ending stream")
			return stats, nil
		default:
			// Context ended: client disconnected or server shutting down.
			logger.Debug().Err(err).Msg("Stream cancelled")
			return stats, nil
		}

		out := s.processFrame(ctx, ch, payload, &stats, logger)
		if out == nil {
			stats.Placeholders++
		} else {
			stats.Frames++
		}
		if err := emit(out); err != nil {
			return stats, fmt.Errorf("emit frame: %w", err)
		}
	}
}

// processFrame returns the encoded frame to emit, or nil when the frame could
// not be processed and a placeholder should be sent instead.
func (s *Streamer) processFrame(ctx context.Context, ch *relay.Channel, payload []byte, stats *StreamStats, logger zerolog.Logger) (out []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Process frame panic recovered")
			stats.Errors++
			out = nil
		}
	}()

	encoded, rec, err := s.recognizer.Process(ctx, payload)
	if err != nil {
		stats.Errors++
		if errors.Is(err, models.ErrFrameDecode) {
			logger.Warn().Err(err).Int("bytes", len(payload)).Msg("Dropping undecodable frame")
		} else {
			logger.Error().Err(err).Msg("Frame processing failed")
		}
		return nil
	}

	if rec.HandDetected {
		ch.SetPrediction(rec.Gesture)
		stats.Predictions++
		s.publish(ch.ClientID(), rec.Gesture, logger)
	}
	return encoded
}

func (s *Streamer) publish(clientID, gesture string, logger zerolog.Logger) {
	if s.sink == nil {
		return
	}
	evt := models.PredictionEvent{
		ClientID:  clientID,
		Gesture:   gesture,
		Timestamp: time.Now(),
	}
	if err := s.sink.PublishPrediction(evt); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish prediction event")
	}
}
