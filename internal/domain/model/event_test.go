package model_test

import (
	"testing"

	"github.com/okian/headlights/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseCode(t *testing.T) {
	Convey("Given wire codes", t, func() {
		Convey("Then known codes map to endpoints and back", func() {
			So(model.ParseCode("0"), ShouldEqual, model.CodeLocation)
			So(model.ParseCode("1"), ShouldEqual, model.CodeHome)
			So(model.ParseCode("2"), ShouldEqual, model.CodeWork)
			for _, c := range []model.Code{model.CodeLocation, model.CodeHome, model.CodeWork} {
				So(model.ParseCode(c.Wire()), ShouldEqual, c)
			}
		})

		Convey("Then anything else is unknown", func() {
			for _, s := range []string{"", "3", " 0", "home", "00"} {
				So(model.ParseCode(s), ShouldEqual, model.CodeUnknown)
			}
			So(model.CodeUnknown.Wire(), ShouldEqual, "")
			So(model.CodeUnknown.String(), ShouldEqual, "unknown")
		})
	})
}

func TestEventType(t *testing.T) {
	Convey("Given the event type enumeration", t, func() {
		Convey("Then every displayable type has a distinct wire name", func() {
			seen := map[string]bool{}
			for _, et := range model.EventTypes() {
				So(et.Known(), ShouldBeTrue)
				So(seen[et.String()], ShouldBeFalse)
				seen[et.String()] = true
			}
			So(len(seen), ShouldEqual, 7)
		})

		Convey("Then Unrecognized and out-of-range values are not known", func() {
			So(model.Unrecognized.Known(), ShouldBeFalse)
			So(model.EventType(42).Known(), ShouldBeFalse)
			So(model.EventType(42).String(), ShouldEqual, "unrecognized")
			So(model.EventType(-1).String(), ShouldEqual, "unrecognized")
		})

		Convey("Then wire names match the event source vocabulary", func() {
			So(model.LocationToWork.String(), ShouldEqual, "location_work")
			So(model.WorkToHome.String(), ShouldEqual, "work_home")
			So(model.Error.String(), ShouldEqual, "error")
		})
	})
}

func TestJobReply(t *testing.T) {
	Convey("Given a job with a buffered done channel", t, func() {
		done := make(chan model.Result, 1)
		job := model.Job{Type: model.Calendar, Done: done}

		Convey("When it is replied to twice", func() {
			job.Reply(model.Result{Type: model.Calendar, Outcome: model.Fired})
			job.Reply(model.Result{Outcome: model.DroppedQuiet})

			Convey("Then only the first result is delivered and nothing blocks", func() {
				r := <-done
				So(r.Outcome, ShouldEqual, model.Fired)
				So(len(done), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a job without a done channel", t, func() {
		So(func() { model.Job{}.Reply(model.Result{}) }, ShouldNotPanic)
	})

	Convey("Given the outcomes", t, func() {
		So(model.Fired.String(), ShouldEqual, "fired")
		So(model.DroppedQuiet.String(), ShouldEqual, "dropped_quiet")
		So(model.DroppedUnrecognized.String(), ShouldEqual, "dropped_unrecognized")
		So(model.Outcome(9).String(), ShouldEqual, "unknown")
	})
}
