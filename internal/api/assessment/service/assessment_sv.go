package assessmentService

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"ProjectQuake/internal/api/assessment"
	"ProjectQuake/internal/entity"
	"ProjectQuake/internal/risk"
	"ProjectQuake/internal/session"
	"ProjectQuake/pkg/log"
	"golang.org/x/net/context"
)

const (
	adviceAllClear = "Room looks secure! No major hazards detected."
	adviceFallback = "Secure heavy furniture, including chairs and tables to the floor with L-brackets or furniture straps."

	advisoryTimeout = 15 * time.Second
)

func (s *assessmentService) State() session.Snapshot {
	return s.state.Snapshot()
}

func (s *assessmentService) UpdateMagnitude(magnitude float64) {
	s.state.SetMagnitude(magnitude)
}

// AnalyzeFrame runs the full per-frame pipeline: detect, calibrate, score.
// Session state is only touched after everything succeeded, so a failing call
// leaves the previous successful detections in place. A magnitude of 0 means
// "use the session's current value"; a request magnitude is scoring-only and
// never written back to the session.
func (s *assessmentService) AnalyzeFrame(ctx context.Context, frame []byte, magnitude float64) ([]entity.Detection, error) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(frame)); err != nil {
		return nil, fmt.Errorf("%w: %v", assessment.ErrUndecodableImage, err)
	}

	if magnitude <= 0 {
		magnitude = s.state.Magnitude()
	}

	objects, err := s.detector.DetectObjects(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", assessment.ErrDetectorUnavailable, err)
	}

	ratio := risk.Calibrate(objects, s.cfg.KnownHeights, s.cfg.DefaultRatio)

	detections := make([]entity.Detection, 0, len(objects))
	for _, obj := range objects {
		if _, skip := s.excluded[strings.ToLower(obj.Label)]; skip {
			continue
		}

		riskPct, err := s.estimator.Estimate(obj.Height(), obj.Width(), magnitude, ratio)
		if err != nil {
			if errors.Is(err, risk.ErrDegenerateBox) {
				s.log.WithFields(log.Fields{
					"label":    obj.Label,
					"track_id": obj.TrackID,
				}).Warn("Skipping box with no vertical extent")
				continue
			}
			return nil, err
		}

		detections = append(detections, entity.Detection{
			TrackID: obj.TrackID,
			Label:   obj.Label,
			BBox:    obj.BBox,
			Risk:    riskPct,
		})
	}

	s.state.SetDetections(detections)

	return detections, nil
}

// Recommend reduces the submitted detections to the distinct risky objects
// and asks the advisory model for prioritized mitigation steps. The advisory
// collaborator is allowed to fail: any error is recovered with a fixed
// fallback string so its unavailability never breaks the request.
func (s *assessmentService) Recommend(ctx context.Context, detections []entity.Detection) (string, error) {
	riskyItems := risk.SelectRisky(detections, s.cfg.RiskThreshold, s.cfg.Untracked)
	if len(riskyItems) == 0 {
		return adviceAllClear, nil
	}

	prompt := fmt.Sprintf(
		"In an earthquake, these items might fall: %s. "+
			"Provide a priority order of objects to secure and how, or none if not needed. "+
			"Keep the response under 100 words in bullet point format.",
		strings.Join(riskyItems, ", "),
	)

	advisoryCtx, cancel := context.WithTimeout(ctx, advisoryTimeout)
	defer cancel()

	advice, err := s.gemini.GenerateText(advisoryCtx, prompt)
	if err != nil {
		s.log.WithFields(log.Fields{
			"error":       err.Error(),
			"risky_items": riskyItems,
		}).Error("Advisory generation failed, serving fallback advice")
		return adviceFallback, nil
	}

	return advice, nil
}
