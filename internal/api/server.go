package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"janken-relay-go/internal/api/handlers"
	"janken-relay-go/internal/config"
	"janken-relay-go/internal/services"
)

type Server struct {
	config    *config.Config
	container *services.ServiceContainer
	router    *gin.Engine
	server    *http.Server

	healthHandler  *handlers.HealthHandler
	frameHandler   *handlers.FrameHandler
	streamHandler  *handlers.StreamHandler
	resultHandler  *handlers.ResultHandler
	processHandler *handlers.ProcessHandler
	wsHandler      *handlers.WSHandler
}

func NewServer(cfg *config.Config, container *services.ServiceContainer) *Server {
	if cfg.Environment == "development" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	var inference handlers.HealthChecker
	if container.InferenceSvc != nil {
		inference = container.InferenceSvc
	}
	var messaging handlers.ConnectionChecker
	if container.MessagingSvc != nil {
		messaging = container.MessagingSvc
	}

	s := &Server{
		config:         cfg,
		container:      container,
		router:         gin.New(),
		healthHandler:  handlers.NewHealthHandler(cfg, container.Registry, inference, messaging),
		frameHandler:   handlers.NewFrameHandler(container.Registry),
		streamHandler:  handlers.NewStreamHandler(container.Streamer),
		resultHandler:  handlers.NewResultHandler(container.Registry),
		processHandler: handlers.NewProcessHandler(container.Recognizer),
		wsHandler:      handlers.NewWSHandler(container.Registry, cfg.WSPushInterval),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:    cfg.Addr(),
		Handler: s.router,
	}
	// Ends open MJPEG streams once Shutdown has closed the listeners, so the
	// server can drain them.
	s.server.RegisterOnShutdown(container.Registry.Close)
	return s
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("Starting gesture relay API")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown ends active streams, stops accepting requests and releases the
// service container.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Stopping gesture relay API")

	err := s.server.Shutdown(ctx)
	if cerr := s.container.Shutdown(ctx); err == nil {
		err = cerr
	}
	return err
}

func (s *Server) Handler() http.Handler {
	return s.router
}
