package assessmentService_test

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"ProjectQuake/internal/api/assessment"
	assessmentService "ProjectQuake/internal/api/assessment/service"
	"ProjectQuake/internal/entity"
	"ProjectQuake/internal/risk"
	"ProjectQuake/internal/session"
	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/net/context"
)

type fakeDetector struct {
	objects []entity.TrackedObject
	err     error
	calls   int
}

func (f *fakeDetector) DetectObjects(frame []byte) ([]entity.TrackedObject, error) {
	f.calls++
	return f.objects, f.err
}
func (f *fakeDetector) IsConnected() bool { return true }
func (f *fakeDetector) Reconnect() error  { return nil }
func (f *fakeDetector) Close()            {}

type fakeGemini struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGemini) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func (f *fakeGemini) DescribeFrames(_ context.Context, prompt string, _ [][]byte) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func (f *fakeGemini) Close() {}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// pngFrame returns a tiny valid image so decode validation passes.
func pngFrame(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAnalyzeFrame(t *testing.T) {
	frame := pngFrame(t)

	Convey("Given a detector reporting a reference object and hazards", t, func() {
		det := &fakeDetector{objects: []entity.TrackedObject{
			{TrackID: 1, Label: "chair", BBox: []float64{0, 0, 40, 90}},
			{TrackID: 2, Label: "tv", BBox: []float64{100, 0, 130, 300}},
			{TrackID: 3, Label: "person", BBox: []float64{200, 0, 260, 380}},
		}}
		state := session.New()
		svc := assessmentService.NewAssessmentService(quietLogger(), det, &fakeGemini{}, state, risk.DefaultConfig())

		Convey("When a frame is analyzed", func() {
			detections, err := svc.AnalyzeFrame(context.Background(), frame, 6)

			Convey("Then every non-excluded box gets a bounded risk", func() {
				So(err, ShouldBeNil)
				So(detections, ShouldHaveLength, 2)
				for _, d := range detections {
					So(d.Risk, ShouldBeBetweenOrEqual, 0, 100)
				}
			})

			Convey("Then the excluded label never appears", func() {
				So(err, ShouldBeNil)
				for _, d := range detections {
					So(d.Label, ShouldNotEqual, "person")
				}
			})

			Convey("Then a very tall narrow object at this magnitude always tips", func() {
				So(err, ShouldBeNil)
				// stability 30/300 = 0.1; 0.1*35 = 3.5 < 6²·0.5 = 18.
				So(detections[1].Label, ShouldEqual, "tv")
				So(detections[1].Risk, ShouldEqual, 100)
			})

			Convey("Then session state holds the new detections", func() {
				So(err, ShouldBeNil)
				snap := state.Snapshot()
				So(snap.Detections, ShouldHaveLength, 2)
			})

			Convey("Then the request magnitude is scoring-only and never stored", func() {
				So(err, ShouldBeNil)
				So(state.Magnitude(), ShouldEqual, session.DefaultMagnitude)
			})
		})

		Convey("When the frame carries no magnitude", func() {
			state.SetMagnitude(7)
			_, err := svc.AnalyzeFrame(context.Background(), frame, 0)

			Convey("Then the session magnitude is used and untouched", func() {
				So(err, ShouldBeNil)
				So(state.Magnitude(), ShouldEqual, 7)
			})
		})

		Convey("When the frame carries its own magnitude", func() {
			state.SetMagnitude(7)
			_, err := svc.AnalyzeFrame(context.Background(), frame, 8)

			Convey("Then only the explicit update operation ever moves the session magnitude", func() {
				So(err, ShouldBeNil)
				So(state.Magnitude(), ShouldEqual, 7)
			})
		})
	})

	Convey("Given a wide squat object", t, func() {
		det := &fakeDetector{objects: []entity.TrackedObject{
			{TrackID: 4, Label: "couch", BBox: []float64{0, 0, 500, 50}},
		}}
		state := session.New()
		svc := assessmentService.NewAssessmentService(quietLogger(), det, &fakeGemini{}, state, risk.DefaultConfig())

		Convey("Then moderate shaking cannot tip it", func() {
			detections, err := svc.AnalyzeFrame(context.Background(), frame, 6)
			So(err, ShouldBeNil)
			// stability 10; 10*35 = 350 > 6²·1.5 = 54.
			So(detections[0].Risk, ShouldEqual, 0)
		})
	})

	Convey("Given a detector that reports a degenerate box", t, func() {
		det := &fakeDetector{objects: []entity.TrackedObject{
			{TrackID: 1, Label: "tv", BBox: []float64{0, 50, 100, 50}},
			{TrackID: 2, Label: "shelf", BBox: []float64{0, 0, 60, 200}},
		}}
		state := session.New()
		svc := assessmentService.NewAssessmentService(quietLogger(), det, &fakeGemini{}, state, risk.DefaultConfig())

		Convey("Then the box is skipped and the rest is scored", func() {
			detections, err := svc.AnalyzeFrame(context.Background(), frame, 6)
			So(err, ShouldBeNil)
			So(detections, ShouldHaveLength, 1)
			So(detections[0].Label, ShouldEqual, "shelf")
		})
	})

	Convey("Given a failing detector", t, func() {
		det := &fakeDetector{err: errors.New("connection refused")}
		state := session.New()
		state.SetDetections([]entity.Detection{{TrackID: 9, Label: "wardrobe", Risk: 80}})
		svc := assessmentService.NewAssessmentService(quietLogger(), det, &fakeGemini{}, state, risk.DefaultConfig())

		Convey("When analysis runs", func() {
			_, err := svc.AnalyzeFrame(context.Background(), frame, 6)

			Convey("Then the error is surfaced as a detector failure", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, assessment.ErrDetectorUnavailable), ShouldBeTrue)
			})

			Convey("Then the prior successful state persists", func() {
				snap := state.Snapshot()
				So(snap.Detections, ShouldHaveLength, 1)
				So(snap.Detections[0].Label, ShouldEqual, "wardrobe")
			})
		})
	})

	Convey("Given an undecodable payload", t, func() {
		det := &fakeDetector{}
		svc := assessmentService.NewAssessmentService(quietLogger(), det, &fakeGemini{}, session.New(), risk.DefaultConfig())

		Convey("Then analysis rejects it before calling the detector", func() {
			_, err := svc.AnalyzeFrame(context.Background(), []byte("not an image"), 6)
			So(errors.Is(err, assessment.ErrUndecodableImage), ShouldBeTrue)
			So(det.calls, ShouldEqual, 0)
		})
	})
}

func TestRecommend(t *testing.T) {
	Convey("Given no risky detections", t, func() {
		gem := &fakeGemini{text: "should not be used"}
		svc := assessmentService.NewAssessmentService(quietLogger(), &fakeDetector{}, gem, session.New(), risk.DefaultConfig())

		Convey("Then the all-clear string comes back without an advisory call", func() {
			advice, err := svc.Recommend(context.Background(), []entity.Detection{
				{TrackID: 1, Label: "lamp", Risk: 10},
			})
			So(err, ShouldBeNil)
			So(advice, ShouldEqual, "Room looks secure! No major hazards detected.")
			So(gem.prompts, ShouldBeEmpty)
		})
	})

	Convey("Given risky detections and a healthy advisory model", t, func() {
		gem := &fakeGemini{text: "- Anchor the bookshelf to the wall"}
		svc := assessmentService.NewAssessmentService(quietLogger(), &fakeDetector{}, gem, session.New(), risk.DefaultConfig())

		Convey("Then the model's advice is returned verbatim", func() {
			advice, err := svc.Recommend(context.Background(), []entity.Detection{
				{TrackID: 1, Label: "bookshelf", Risk: 80},
				{TrackID: 2, Label: "tv", Risk: 65},
			})
			So(err, ShouldBeNil)
			So(advice, ShouldEqual, "- Anchor the bookshelf to the wall")

			So(gem.prompts, ShouldHaveLength, 1)
			So(gem.prompts[0], ShouldContainSubstring, "bookshelf, tv")
			So(strings.HasPrefix(gem.prompts[0], "In an earthquake"), ShouldBeTrue)
		})
	})

	Convey("Given risky detections and a failing advisory model", t, func() {
		gem := &fakeGemini{err: errors.New("quota exceeded")}
		svc := assessmentService.NewAssessmentService(quietLogger(), &fakeDetector{}, gem, session.New(), risk.DefaultConfig())

		Convey("Then the fixed fallback is served as a success", func() {
			advice, err := svc.Recommend(context.Background(), []entity.Detection{
				{TrackID: 1, Label: "bookshelf", Risk: 80},
			})
			So(err, ShouldBeNil)
			So(advice, ShouldEqual, "Secure heavy furniture, including chairs and tables to the floor with L-brackets or furniture straps.")
		})
	})

	Convey("Given duplicate sightings of one object", t, func() {
		gem := &fakeGemini{text: "advice"}
		svc := assessmentService.NewAssessmentService(quietLogger(), &fakeDetector{}, gem, session.New(), risk.DefaultConfig())

		Convey("Then the prompt lists the object once, judged by its latest risk", func() {
			_, err := svc.Recommend(context.Background(), []entity.Detection{
				{TrackID: 1, Label: "tv", Risk: 60},
				{TrackID: 1, Label: "tv", Risk: 40},
				{TrackID: 2, Label: "shelf", Risk: 70},
			})
			So(err, ShouldBeNil)
			So(gem.prompts, ShouldHaveLength, 1)
			So(gem.prompts[0], ShouldContainSubstring, "shelf")
			So(gem.prompts[0], ShouldNotContainSubstring, "tv")
		})
	})
}
