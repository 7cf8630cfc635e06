package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"janken-relay-go/internal/config"
	"janken-relay-go/internal/logging"
	"janken-relay-go/internal/models"
)

// Service publishes gesture predictions to NATS so other systems can follow
// clients without polling /result.
type Service struct {
	conn      *nats.Conn
	subject   string
	logger    zerolog.Logger
	published atomic.Uint64
}

func NewService(cfg *config.Config) (*Service, error) {
	logger := logging.NewServiceLogger(cfg, "messaging")

	conn, err := nats.Connect(cfg.NatsURL,
		nats.Name("janken-relay-"+cfg.WorkerID),
		nats.Timeout(cfg.NatsConnectTimeout),
		nats.ReconnectWait(cfg.NatsReconnectWait),
		nats.MaxReconnects(cfg.NatsMaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.NatsURL, err)
	}

	logger.Info().
		Str("url", cfg.NatsURL).
		Str("subject", cfg.PredictionsSubject).
		Msg("Publishing predictions to NATS")

	return &Service{
		conn:    conn,
		subject: cfg.PredictionsSubject,
		logger:  logger,
	}, nil
}

// PublishPrediction sends evt on the predictions subject. Delivery is
// fire-and-forget: NATS buffers while reconnecting.
func (s *Service) PublishPrediction(evt models.PredictionEvent) error {
	payload, err := encodePrediction(evt)
	if err != nil {
		return err
	}
	if err := s.conn.Publish(s.subject, payload); err != nil {
		return fmt.Errorf("publish to %s: %w", s.subject, err)
	}
	s.published.Add(1)
	return nil
}

func encodePrediction(evt models.PredictionEvent) ([]byte, error) {
	if evt.ClientID == "" || evt.Gesture == "" {
		return nil, fmt.Errorf("incomplete prediction event %+v", evt)
	}
	return json.Marshal(evt)
}

// Published returns the number of events handed to NATS.
func (s *Service) Published() uint64 {
	return s.published.Load()
}

func (s *Service) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}

// Shutdown flushes pending events within ctx, then drains the connection.
func (s *Service) Shutdown(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.FlushWithContext(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to flush pending predictions")
	}
	if err := s.conn.Drain(); err != nil {
		s.conn.Close()
		return err
	}
	s.logger.Info().Uint64("published", s.Published()).Msg("NATS connection drained")
	return nil
}
