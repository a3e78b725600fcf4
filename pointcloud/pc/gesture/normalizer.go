package gesture

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Hand landmark layout of the 21-point hand model.
const (
	LandmarkCount = 21
	WristIndex    = 0

	// Mean wrist-to-tip distance of a closed fist and of an open hand,
	// in normalized image units.
	OpennessMin = 0.15
	OpennessMax = 0.55
)

// FingertipIndices are thumb, index, middle, ring and pinky tips.
var FingertipIndices = [5]int{4, 8, 12, 16, 20}

var ErrTooFewLandmarks = errors.New("not enough hand landmarks")

// Openness maps one hand's landmarks to [0,1]: 0 is a closed fist, 1 a fully
// open hand.
func Openness(landmarks []mgl32.Vec3) (float32, error) {
	if len(landmarks) < LandmarkCount {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrTooFewLandmarks, len(landmarks), LandmarkCount)
	}
	wrist := landmarks[WristIndex]

	var total float32
	for _, idx := range FingertipIndices {
		total += landmarks[idx].Sub(wrist).Len()
	}
	avg := total / float32(len(FingertipIndices))

	return mgl32.Clamp((avg-OpennessMin)/(OpennessMax-OpennessMin), 0, 1), nil
}
