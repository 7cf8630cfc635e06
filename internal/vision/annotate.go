package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"janken-relay-go/internal/models"
)

var (
	landmarkColor   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	connectionColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const (
	landmarkRadius      = 4
	connectionThickness = 2
)

// Annotate draws the hand skeleton on a black canvas the size of frame.
// A nil hand yields a plain black canvas. The caller owns the returned frame.
func Annotate(frame models.Frame, hand *models.HandLandmarks) (models.Frame, error) {
	f, ok := frame.(*Frame)
	if !ok {
		return nil, fmt.Errorf("vision: cannot annotate %T", frame)
	}

	canvas := gocv.NewMatWithSize(f.Mat.Rows(), f.Mat.Cols(), gocv.MatTypeCV8UC3)
	canvas.SetTo(gocv.NewScalar(0, 0, 0, 0))

	if hand != nil {
		w, h := canvas.Cols(), canvas.Rows()
		points := make([]image.Point, models.NumLandmarks)
		for i, lm := range hand.Points {
			points[i] = image.Pt(int(lm.X*float64(w)), int(lm.Y*float64(h)))
		}

		for _, conn := range models.HandConnections {
			gocv.Line(&canvas, points[conn[0]], points[conn[1]], connectionColor, connectionThickness)
		}
		for _, pt := range points {
			gocv.Circle(&canvas, pt, landmarkRadius, landmarkColor, -1)
		}
	}

	return &Frame{Mat: canvas}, nil
}
