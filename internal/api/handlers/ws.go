package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"janken-relay-go/internal/logging"
	"janken-relay-go/internal/relay"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsPingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 << 10,
	WriteBufferSize: 4 << 10,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSHandler carries frames in and predictions out over a single websocket.
type WSHandler struct {
	registry     *relay.Registry
	pushInterval time.Duration
}

func NewWSHandler(registry *relay.Registry, pushInterval time.Duration) *WSHandler {
	return &WSHandler{registry: registry, pushInterval: pushInterval}
}

// Connect godoc
// @Summary Websocket transport
// @Description Binary messages are ingested as frames for the client. The server sends the ResultResponse JSON whenever the latest prediction changes. A channel created by the connection is removed on disconnect unless a stream is consuming it.
// @Tags frames
// @Param clientId path string true "Client ID"
// @Success 101 {string} string "Switching Protocols"
// @Router /ws/{clientId} [get]
func (h *WSHandler) Connect(c *gin.Context) {
	clientID := c.Param("clientId")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn(c).Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(MaxPayloadBytes)

	logging.Info(c).Msg("Websocket connected")

	// The reader may outlive this handler, so it must not touch c.
	logger := log.With().Str("client_id", clientID).Logger()
	done := make(chan struct{})
	go func() {
		defer close(done)

		// A channel this connection created is removed on disconnect unless a
		// stream is consuming it; the stream then removes it when it ends.
		var owned *relay.Channel
		defer func() {
			if owned != nil && owned.Consumers() == 0 {
				h.registry.RemoveChannel(owned)
			}
		}()

		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Warn().Err(err).Msg("Websocket read failed")
				}
				return
			}
			if msgType != websocket.BinaryMessage || len(data) == 0 {
				continue
			}
			ch, created := h.registry.GetOrCreate(clientID)
			if created {
				owned = ch
			}
			ch.Push(data)
		}
	}()

	push := time.NewTicker(h.pushInterval)
	defer push.Stop()
	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	var last string
	for {
		select {
		case <-done:
			logging.Info(c).Msg("Websocket disconnected")
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		case <-push.C:
			ch, ok := h.registry.Lookup(clientID)
			if !ok {
				continue
			}
			label, ok := ch.Prediction()
			if !ok || label == last {
				continue
			}
			last = label
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
				logging.Warn(c).Err(err).Msg("Websocket write deadline failed")
				return
			}
			if err := conn.WriteJSON(ResultResponse{ClientID: clientID, LatestPrediction: &label}); err != nil {
				logging.Warn(c).Err(err).Msg("Websocket write failed")
				return
			}
		}
	}
}
