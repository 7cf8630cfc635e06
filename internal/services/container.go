package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"janken-relay-go/internal/config"
	"janken-relay-go/internal/features"
	"janken-relay-go/internal/logging"
	"janken-relay-go/internal/relay"
	"janken-relay-go/internal/services/detection"
	"janken-relay-go/internal/services/gesture"
	"janken-relay-go/internal/services/inference"
	"janken-relay-go/internal/services/messaging"
	"janken-relay-go/internal/vision"
)

// ServiceContainer holds all services
type ServiceContainer struct {
	Config       *config.Config
	Registry     *relay.Registry
	Codec        *vision.Codec
	InferenceSvc *inference.Service
	DetectionSvc *detection.Service
	Recognizer   *gesture.Recognizer
	Streamer     *gesture.Streamer
	MessagingSvc *messaging.Service // nil when NATS is disabled
}

// NewServiceContainer creates a new service container. The inference service
// must pass its health check before the container is returned.
func NewServiceContainer(ctx context.Context, cfg *config.Config) (*ServiceContainer, error) {
	inferenceSvc, err := inference.NewService(cfg.InferenceGRPCURL, inference.Options{
		MaxHands:               cfg.MaxHands,
		MinDetectionConfidence: cfg.MinDetectionConfidence,
		CallTimeout:            cfg.InferenceTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create inference client: %w", err)
	}

	hctx, cancel := context.WithTimeout(ctx, cfg.InferenceHealthTimeout)
	defer cancel()
	if err := inferenceSvc.HealthCheck(hctx); err != nil {
		inferenceSvc.Shutdown(ctx)
		return nil, fmt.Errorf("inference service at %s is not healthy: %w", cfg.InferenceGRPCURL, err)
	}

	var messagingSvc *messaging.Service
	if cfg.NatsEnabled {
		messagingSvc, err = messaging.NewService(cfg)
		if err != nil {
			inferenceSvc.Shutdown(ctx)
			return nil, fmt.Errorf("connect to NATS: %w", err)
		}
	}

	codec := vision.NewCodec(cfg.OutputQuality)
	detectionSvc := detection.NewService(inferenceSvc, codec)
	recognizer := gesture.NewRecognizer(codec, detectionSvc, inferenceSvc, features.AnglesFromLandmarks)
	registry := relay.NewRegistry()

	var sink gesture.PredictionSink
	if messagingSvc != nil {
		sink = messagingSvc
	}
	streamer := gesture.NewStreamer(registry, recognizer, sink, gesture.StreamConfig{
		FrameTimeout: cfg.FrameTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryDelay:   cfg.RetryDelay,
	}).WithLogger(logging.NewServiceLogger(cfg, "streamer"))

	return &ServiceContainer{
		Config:       cfg,
		Registry:     registry,
		Codec:        codec,
		InferenceSvc: inferenceSvc,
		DetectionSvc: detectionSvc,
		Recognizer:   recognizer,
		Streamer:     streamer,
		MessagingSvc: messagingSvc,
	}, nil
}

// Shutdown closes every channel, ending active streams, then releases the
// external connections.
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	if sc.Registry != nil {
		sc.Registry.Close()
	}

	if sc.MessagingSvc != nil {
		if err := sc.MessagingSvc.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to shut down messaging service")
		}
	}

	if sc.InferenceSvc != nil {
		return sc.InferenceSvc.Shutdown(ctx)
	}
	return nil
}
