package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"janken-relay-go/internal/logging"
	"janken-relay-go/internal/relay"
)

type FrameHandler struct {
	registry *relay.Registry
}

func NewFrameHandler(registry *relay.Registry) *FrameHandler {
	return &FrameHandler{registry: registry}
}

// Ingest godoc
// @Summary Upload a frame
// @Description Store the newest frame for a client, replacing any frame not yet consumed. The channel is created on first upload.
// @Tags frames
// @Accept image/jpeg
// @Accept multipart/form-data
// @Produce json
// @Param clientId path string true "Client ID"
// @Param image formData file false "Frame image (multipart upload)"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /frames/{clientId} [post]
func (h *FrameHandler) Ingest(c *gin.Context) {
	clientID := c.Param("clientId")

	frame, err := readImage(c)
	if err != nil {
		logging.Debug(c).Err(err).Msg("Rejected frame upload")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ch, created := h.registry.GetOrCreate(clientID)
	if ch.IsClosed() {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "relay is shutting down"})
		return
	}
	ch.Push(frame)
	if created {
		logging.Info(c).Msg("Client channel created")
	}

	c.JSON(http.StatusOK, StatusResponse{Status: "success"})
}
