package risk_test

import (
	"testing"

	"ProjectQuake/internal/entity"
	"ProjectQuake/internal/risk"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSelectRisky(t *testing.T) {
	Convey("Given repeated sightings of the same tracked object", t, func() {
		detections := []entity.Detection{
			{TrackID: 1, Label: "tv", Risk: 60},
			{TrackID: 1, Label: "tv", Risk: 40},
			{TrackID: 2, Label: "shelf", Risk: 70},
		}

		Convey("Then the last sighting per track wins, including its risk", func() {
			got := risk.SelectRisky(detections, 50, risk.UntrackedDrop)
			So(got, ShouldResemble, []string{"shelf"})
		})
	})

	Convey("Given several risky tracks", t, func() {
		detections := []entity.Detection{
			{TrackID: 3, Label: "bookshelf", Risk: 80},
			{TrackID: 4, Label: "tv", Risk: 65},
			{TrackID: 5, Label: "lamp", Risk: 20},
			{TrackID: 3, Label: "bookshelf", Risk: 90},
		}

		Convey("Then labels come back in first-appearance order", func() {
			got := risk.SelectRisky(detections, 50, risk.UntrackedDrop)
			So(got, ShouldResemble, []string{"bookshelf", "tv"})
		})

		Convey("And the order is stable across repeated calls", func() {
			first := risk.SelectRisky(detections, 50, risk.UntrackedDrop)
			for i := 0; i < 10; i++ {
				So(risk.SelectRisky(detections, 50, risk.UntrackedDrop), ShouldResemble, first)
			}
		})
	})

	Convey("Given two tracks sharing a label", t, func() {
		detections := []entity.Detection{
			{TrackID: 1, Label: "tv", Risk: 60},
			{TrackID: 2, Label: "tv", Risk: 75},
		}

		Convey("Then the label appears once", func() {
			got := risk.SelectRisky(detections, 50, risk.UntrackedDrop)
			So(got, ShouldResemble, []string{"tv"})
		})
	})

	Convey("Given identity-less detections", t, func() {
		detections := []entity.Detection{
			{TrackID: 0, Label: "vase", Risk: 90},
			{TrackID: 0, Label: "mirror", Risk: 30},
			{TrackID: 7, Label: "wardrobe", Risk: 55},
		}

		Convey("The drop policy excludes them", func() {
			got := risk.SelectRisky(detections, 50, risk.UntrackedDrop)
			So(got, ShouldResemble, []string{"wardrobe"})
		})

		Convey("The keep policy counts each risky one individually", func() {
			got := risk.SelectRisky(detections, 50, risk.UntrackedKeep)
			So(got, ShouldResemble, []string{"wardrobe", "vase"})
		})
	})

	Convey("Given nothing above the threshold", t, func() {
		detections := []entity.Detection{
			{TrackID: 1, Label: "tv", Risk: 50}, // threshold is strict
			{TrackID: 2, Label: "lamp", Risk: 10},
		}

		Convey("Then the risky set is empty", func() {
			So(risk.SelectRisky(detections, 50, risk.UntrackedDrop), ShouldBeEmpty)
		})
	})
}
