package assessmentService

import (
	"os"
	"strings"

	"ProjectQuake/internal/entity"
	"ProjectQuake/internal/risk"
	"ProjectQuake/internal/session"
	"ProjectQuake/pkg/detector"
	"ProjectQuake/pkg/gemini"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IAssessmentService interface {
	State() session.Snapshot
	UpdateMagnitude(magnitude float64)
	AnalyzeFrame(ctx context.Context, frame []byte, magnitude float64) ([]entity.Detection, error)
	Recommend(ctx context.Context, detections []entity.Detection) (string, error)
}

type assessmentService struct {
	log       *logrus.Logger
	detector  detector.IDetector
	gemini    gemini.IGemini
	state     *session.State
	estimator *risk.Estimator
	cfg       risk.Config
	excluded  map[string]struct{}
}

func NewAssessmentService(
	log *logrus.Logger,
	detector detector.IDetector,
	gemini gemini.IGemini,
	state *session.State,
	cfg risk.Config,
) IAssessmentService {
	return &assessmentService{
		log:       log,
		detector:  detector,
		gemini:    gemini,
		state:     state,
		estimator: risk.NewEstimator(cfg),
		cfg:       cfg,
		excluded:  excludedLabels(),
	}
}

// excludedLabels reads the label classes that should never be scored.
// Defaults to "person": people move on their own, a tipping model for them is
// noise.
func excludedLabels() map[string]struct{} {
	raw, ok := os.LookupEnv("EXCLUDED_LABELS")
	if !ok {
		raw = "person"
	}

	excluded := make(map[string]struct{})
	for _, label := range strings.Split(raw, ",") {
		label = strings.ToLower(strings.TrimSpace(label))
		if label != "" {
			excluded[label] = struct{}{}
		}
	}
	return excluded
}
