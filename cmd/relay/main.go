package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"janken-relay-go/internal/api"
	"janken-relay-go/internal/config"
	"janken-relay-go/internal/logging"
	"janken-relay-go/internal/services"
)

// @title Gesture Relay API
// @version 1.0.0
// @description Relays webcam frames from browser clients through hand landmark detection and gesture classification, serving annotated MJPEG streams and the latest prediction per client.
// @BasePath /
func main() {
	// Load configuration
	cfg := config.Load()

	logging.Setup(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("worker_id", cfg.WorkerID).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Str("addr", cfg.Addr()).
		Dur("frame_timeout", cfg.FrameTimeout).
		Int("max_retries", cfg.MaxRetries).
		Dur("retry_delay", cfg.RetryDelay).
		Str("inference_url", cfg.InferenceGRPCURL).
		Bool("nats_enabled", cfg.NatsEnabled).
		Msg("Starting gesture relay")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := services.NewServiceContainer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	server := api.NewServer(cfg, container)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Server failed")
		}
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	} else {
		log.Info().Msg("Server shutdown complete")
	}
}
