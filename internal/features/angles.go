// Package features turns hand landmarks into the angle vector the gesture
// classifier was trained on.
package features

import (
	"fmt"
	"math"

	"janken-relay-go/internal/models"
)

// FingerChains lists the landmark indices of each finger, wrist first.
var FingerChains = [5][5]int{
	{models.Wrist, models.ThumbCMC, models.ThumbMCP, models.ThumbIP, models.ThumbTip},
	{models.Wrist, models.IndexMCP, models.IndexPIP, models.IndexDIP, models.IndexTip},
	{models.Wrist, models.MiddleMCP, models.MiddlePIP, models.MiddleDIP, models.MiddleTip},
	{models.Wrist, models.RingMCP, models.RingPIP, models.RingDIP, models.RingTip},
	{models.Wrist, models.PinkyMCP, models.PinkyPIP, models.PinkyDIP, models.PinkyTip},
}

// VectorLen is the number of angles produced per hand.
const VectorLen = len(FingerChains) * (len(FingerChains[0]) - 2)

// AnglesFromLandmarks computes the joint angle at the middle point of every
// consecutive triplet in each finger chain.
func AnglesFromLandmarks(hand *models.HandLandmarks) (models.AngleVector, error) {
	if hand == nil {
		return nil, fmt.Errorf("features: nil hand landmarks")
	}

	angles := make(models.AngleVector, 0, VectorLen)
	for _, chain := range FingerChains {
		for i := 0; i+2 < len(chain); i++ {
			p1 := hand.Points[chain[i]]
			p2 := hand.Points[chain[i+1]]
			p3 := hand.Points[chain[i+2]]
			angles = append(angles, JointAngle(p1, p2, p3))
		}
	}
	return angles, nil
}

// JointAngle returns the angle p1-p2-p3 at p2, in degrees. Degenerate
// (zero-length) segments yield 0.
func JointAngle(p1, p2, p3 models.Landmark) float64 {
	v1x, v1y, v1z := p1.X-p2.X, p1.Y-p2.Y, p1.Z-p2.Z
	v2x, v2y, v2z := p3.X-p2.X, p3.Y-p2.Y, p3.Z-p2.Z

	n1 := math.Sqrt(v1x*v1x + v1y*v1y + v1z*v1z)
	n2 := math.Sqrt(v2x*v2x + v2y*v2y + v2z*v2z)
	if n1 == 0 || n2 == 0 {
		return 0
	}

	cos := (v1x*v2x + v1y*v2y + v1z*v2z) / (n1 * n2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}
