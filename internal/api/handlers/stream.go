package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"janken-relay-go/internal/logging"
	"janken-relay-go/internal/relay"
	"janken-relay-go/internal/services/gesture"
	"janken-relay-go/internal/services/publisher/mjpeg"
)

type StreamHandler struct {
	streamer *gesture.Streamer
}

func NewStreamHandler(streamer *gesture.Streamer) *StreamHandler {
	return &StreamHandler{streamer: streamer}
}

// Stream godoc
// @Summary Stream annotated frames
// @Description MJPEG stream of the client's frames with the hand landmark overlay. Waits briefly for the first upload, then answers 404 if the client never appeared. Empty parts are sent when no frame arrives in time.
// @Tags stream
// @Produce multipart/x-mixed-replace
// @Param clientId path string true "Client ID"
// @Success 200 {string} binary "multipart/x-mixed-replace; boundary=frame"
// @Failure 404 {object} ErrorResponse
// @Router /stream/{clientId} [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	clientID := c.Param("clientId")

	mw, err := mjpeg.NewWriter(c.Writer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	stats, err := h.streamer.Run(c.Request.Context(), clientID, mw.WritePart)
	switch {
	case errors.Is(err, relay.ErrClientNotFound):
		logging.Warn(c).Msg("Stream requested for unknown client")
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "client id not found"})
		return
	case err != nil && !mw.Started():
		// Request context ended while waiting for the channel.
		logging.Debug(c).Err(err).Msg("Stream abandoned before start")
		return
	case err != nil:
		logging.Info(c).Err(err).Msg("Stream interrupted")
	}

	logging.Info(c).
		Int("frames", stats.Frames).
		Int("placeholders", stats.Placeholders).
		Int("predictions", stats.Predictions).
		Int("errors", stats.Errors).
		Msg("Stream finished")
}
