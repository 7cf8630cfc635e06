package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"janken-relay-go/internal/relay"
)

type ResultHandler struct {
	registry *relay.Registry
}

func NewResultHandler(registry *relay.Registry) *ResultHandler {
	return &ResultHandler{registry: registry}
}

type ClientsResponse struct {
	Count   int                  `json:"count"`
	Clients []relay.ChannelStats `json:"clients"`
}

// Result godoc
// @Summary Latest prediction
// @Description Most recent gesture classified for the client. latestPrediction is null until a hand has been seen.
// @Tags results
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {object} ResultResponse
// @Failure 404 {object} ErrorResponse
// @Router /result/{clientId} [get]
func (h *ResultHandler) Result(c *gin.Context) {
	clientID := c.Param("clientId")

	ch, ok := h.registry.Lookup(clientID)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "client id not found"})
		return
	}

	resp := ResultResponse{ClientID: clientID}
	if label, ok := ch.Prediction(); ok {
		resp.LatestPrediction = &label
	}
	c.JSON(http.StatusOK, resp)
}

// Clients godoc
// @Summary List clients
// @Description Active client channels with their queue statistics
// @Tags results
// @Produce json
// @Success 200 {object} ClientsResponse
// @Router /clients [get]
func (h *ResultHandler) Clients(c *gin.Context) {
	clients := h.registry.Snapshot()
	c.JSON(http.StatusOK, ClientsResponse{Count: len(clients), Clients: clients})
}
