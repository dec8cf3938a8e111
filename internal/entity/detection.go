package entity

// TrackedObject is one raw box reported by the external tracker service.
// TrackID is 0 when the tracker could not associate the box with an identity.
type TrackedObject struct {
	TrackID int       `json:"id"`
	Label   string    `json:"label"`
	BBox    []float64 `json:"bbox"`
}

// Width returns the horizontal extent of the box in pixels.
func (t TrackedObject) Width() float64 {
	if len(t.BBox) != 4 {
		return 0
	}
	return t.BBox[2] - t.BBox[0]
}

// Height returns the vertical extent of the box in pixels.
func (t TrackedObject) Height() float64 {
	if len(t.BBox) != 4 {
		return 0
	}
	return t.BBox[3] - t.BBox[1]
}

// TrackerResult is the JSON payload returned by the tracker service for one frame.
type TrackerResult struct {
	Objects []TrackedObject `json:"objects"`
	Message string          `json:"message,omitempty"`
}

// Detection is a tracked object with its fall risk attached. Risk is a
// percentage in [0,100], rounded to one decimal, and is only meaningful
// relative to the magnitude and calibration ratio used when it was computed.
type Detection struct {
	TrackID int       `json:"id"`
	Label   string    `json:"label"`
	BBox    []float64 `json:"bbox"`
	Risk    float64   `json:"risk"`
}
