package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"janken-relay-go/internal/logging"
	"janken-relay-go/internal/models"
	"janken-relay-go/internal/services/gesture"
)

type ProcessHandler struct {
	recognizer *gesture.Recognizer
}

func NewProcessHandler(recognizer *gesture.Recognizer) *ProcessHandler {
	return &ProcessHandler{recognizer: recognizer}
}

type ProcessResponse struct {
	Gesture   string            `json:"gesture" example:"rock"`
	Landmarks []models.Landmark `json:"landmarks"`
}

// ProcessImage godoc
// @Summary Recognize a single image
// @Description Classify the gesture in one uploaded image without creating a client channel
// @Tags frames
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image"
// @Success 200 {object} ProcessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /process_image [post]
func (h *ProcessHandler) ProcessImage(c *gin.Context) {
	payload, err := readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	_, rec, err := h.recognizer.Process(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, models.ErrFrameDecode) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid image"})
			return
		}
		logging.Error(c).Err(err).Msg("Image recognition failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "recognition failed"})
		return
	}

	resp := ProcessResponse{Gesture: models.NoHandDetected}
	if rec.HandDetected {
		resp.Gesture = rec.Gesture
		resp.Landmarks = rec.Landmarks.Points[:]
	}
	c.JSON(http.StatusOK, resp)
}
