package risk

import "ProjectQuake/internal/entity"

// Calibrate derives the meters-per-pixel ratio for a frame from the first
// detected object whose label has a known real-world height. Detector order
// wins deliberately: downstream risk numbers depend on it, so no "largest box"
// or "highest confidence" selection is attempted. Boxes without a vertical
// extent cannot serve as a reference and are skipped.
//
// When no reference object is present the default ratio is returned unchanged.
func Calibrate(objects []entity.TrackedObject, heights map[string]float64, defaultRatio float64) float64 {
	for _, obj := range objects {
		knownHeight, ok := heights[obj.Label]
		if !ok {
			continue
		}
		heightPx := obj.Height()
		if heightPx <= 0 {
			continue
		}
		return knownHeight / heightPx
	}
	return defaultRatio
}
