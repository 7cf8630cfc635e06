package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"janken-relay-go/internal/config"
	"janken-relay-go/internal/relay"
)

// HealthChecker reports the state of an external dependency.
type HealthChecker interface {
	IsHealthy() bool
}

// ConnectionChecker reports whether a broker connection is up.
type ConnectionChecker interface {
	IsConnected() bool
}

type HealthHandler struct {
	cfg       *config.Config
	registry  *relay.Registry
	inference HealthChecker
	messaging ConnectionChecker
}

// NewHealthHandler creates the health handler. messaging may be nil when
// prediction events are disabled.
func NewHealthHandler(cfg *config.Config, registry *relay.Registry, inference HealthChecker, messaging ConnectionChecker) *HealthHandler {
	return &HealthHandler{
		cfg:       cfg,
		registry:  registry,
		inference: inference,
		messaging: messaging,
	}
}

type HealthResponse struct {
	Status           string `json:"status" example:"healthy"`
	WorkerID         string `json:"worker_id" example:"relay-1"`
	ActiveClients    int    `json:"active_clients" example:"2"`
	InferenceHealthy bool   `json:"inference_healthy"`
	NatsConnected    *bool  `json:"nats_connected,omitempty"`
}

type WorkerInfoResponse struct {
	WorkerID     string       `json:"worker_id" example:"relay-1"`
	Status       string       `json:"status" example:"running"`
	Version      string       `json:"version" example:"1.0.0"`
	Environment  string       `json:"environment" example:"development"`
	StartTime    time.Time    `json:"start_time"`
	Capabilities []string     `json:"capabilities"`
	Relay        RelaySummary `json:"relay"`
}

type RelaySummary struct {
	MaxQueueSize     int     `json:"max_queue_size"`
	FrameTimeoutSecs float64 `json:"frame_timeout_seconds"`
	MaxRetries       int     `json:"max_retries"`
	RetryDelaySecs   float64 `json:"retry_delay_seconds"`
}

var startTime = time.Now()

// @Summary Health check
// @Description Report whether the relay and its inference backend are responsive
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:           "healthy",
		WorkerID:         h.cfg.WorkerID,
		ActiveClients:    h.registry.Len(),
		InferenceHealthy: h.inference == nil || h.inference.IsHealthy(),
	}
	if h.messaging != nil {
		connected := h.messaging.IsConnected()
		resp.NatsConnected = &connected
	}

	code := http.StatusOK
	if !resp.InferenceHealthy {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// @Summary Worker information
// @Description Get basic worker information and relay settings
// @Tags health
// @Produce json
// @Success 200 {object} WorkerInfoResponse
// @Router / [get]
func (h *HealthHandler) WorkerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, WorkerInfoResponse{
		WorkerID:    h.cfg.WorkerID,
		Status:      "running",
		Version:     h.cfg.Version,
		Environment: h.cfg.Environment,
		StartTime:   startTime,
		Capabilities: []string{
			"frame_ingest",
			"mjpeg_streaming",
			"gesture_recognition",
			"websocket_transport",
		},
		Relay: RelaySummary{
			MaxQueueSize:     h.cfg.MaxQueueSize,
			FrameTimeoutSecs: h.cfg.FrameTimeout.Seconds(),
			MaxRetries:       h.cfg.MaxRetries,
			RetryDelaySecs:   h.cfg.RetryDelay.Seconds(),
		},
	})
}
