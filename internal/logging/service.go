package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"janken-relay-go/internal/config"
)

// NewServiceLogger derives a logger tagged with the relay instance and the
// component name.
func NewServiceLogger(cfg *config.Config, component string) zerolog.Logger {
	return log.With().
		Str("worker_id", cfg.WorkerID).
		Str("version", cfg.Version).
		Str("component", component).
		Logger()
}

// WithClient tags base with a client id.
func WithClient(base zerolog.Logger, clientID string) zerolog.Logger {
	return base.With().Str(CtxClientID, clientID).Logger()
}
