package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/headlights/internal/adapters/driver"
	service "github.com/okian/headlights/internal/app"
	"github.com/okian/headlights/internal/domain/animation"
	"github.com/okian/headlights/internal/domain/model"
	"github.com/okian/headlights/internal/domain/palette"
	"github.com/okian/headlights/internal/domain/strip"
	"github.com/okian/headlights/internal/events"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	wednesdayAfternoon = time.Date(2024, time.January, 3, 14, 0, 0, 0, time.UTC)
	sundayNight        = time.Date(2024, time.January, 7, 2, 0, 0, 0, time.UTC)
)

func instantEngine() *animation.Engine {
	return animation.New(animation.WithSleeper(func(time.Duration) {}))
}

func newTestStrip(n int) (*strip.Strip, *driver.Memory) {
	rec := driver.NewMemory()
	s, err := strip.New(n, rec)
	if err != nil {
		panic(err)
	}
	return s, rec
}

func at(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func directions(orig, dest string) model.RawEvent {
	return model.RawEvent{Action: model.ActionDirections, Orig: model.ParseCode(orig), Dest: model.ParseCode(dest)}
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestDispatcher_EndToEnd(t *testing.T) {
	Convey("Given a dispatcher on a 59-pixel strip", t, func() {
		ctx := context.Background()
		s, rec := newTestStrip(59)

		Convey("When directions 0 -> 2 arrive on a Wednesday afternoon", func() {
			d := service.NewDispatcher(s, service.WithEngine(instantEngine()), service.WithClock(at(wednesdayAfternoon)))
			outcome, err := d.Handle(ctx, directions("0", "2"))

			Convey("Then a location_work spread runs and the strip ends dark", func() {
				So(err, ShouldBeNil)
				So(outcome, ShouldEqual, model.Fired)

				frames := rec.Frames()
				want := strip.Color{R: 100, G: 255, B: 0}
				So(frames[0].Pixels[29], ShouldResemble, want)
				So(frames[0].Pixels[28], ShouldResemble, strip.Off)
				for _, c := range frames[29].Pixels {
					So(c, ShouldResemble, want)
				}

				last, _ := rec.Last()
				So(last.Brightness, ShouldEqual, 255)
				for _, c := range last.Pixels {
					So(c, ShouldResemble, strip.Off)
				}
			})
		})

		Convey("When an error arrives on a Sunday at 02:00", func() {
			d := service.NewDispatcher(s, service.WithEngine(instantEngine()), service.WithClock(at(sundayNight)))
			outcome, err := d.Handle(ctx, model.RawEvent{Action: "error"})

			Convey("Then it is dropped without touching the strip", func() {
				So(err, ShouldBeNil)
				So(outcome, ShouldEqual, model.DroppedQuiet)
				So(len(rec.Frames()), ShouldEqual, 0)
				So(s.Brightness(), ShouldEqual, 255)
				for _, c := range s.Pixels() {
					So(c, ShouldResemble, strip.Off)
				}
			})
		})

		Convey("When errors are exempt from quiet hours", func() {
			d := service.NewDispatcher(s,
				service.WithEngine(instantEngine()),
				service.WithClock(at(sundayNight)),
				service.WithQuietExempt(model.Error),
			)
			outcome, err := d.Fire(ctx, model.Error)

			Convey("Then the error blinks at night", func() {
				So(err, ShouldBeNil)
				So(outcome, ShouldEqual, model.Fired)
				frames := rec.Frames()
				for i, want := range []uint8{255, 0, 255, 0, 255} {
					So(frames[1+i].Brightness, ShouldEqual, want)
					So(frames[1+i].Pixels[0], ShouldResemble, strip.Color{G: 255})
				}
			})

			Convey("Then other types are still quiet", func() {
				outcome, _ := d.Fire(ctx, model.Calendar)
				So(outcome, ShouldEqual, model.DroppedQuiet)
			})
		})

		Convey("When the event is not recognized", func() {
			d := service.NewDispatcher(s, service.WithEngine(instantEngine()), service.WithClock(at(wednesdayAfternoon)))

			Convey("Then it is dropped silently", func() {
				for _, raw := range []model.RawEvent{
					directions("2", "2"),
					directions("1", "0"),
					{Action: "lunch"},
					{},
				} {
					outcome, err := d.Handle(ctx, raw)
					So(err, ShouldBeNil)
					So(outcome, ShouldEqual, model.DroppedUnrecognized)
				}
				So(len(rec.Frames()), ShouldEqual, 0)
			})
		})

		Convey("When the same event fires twice", func() {
			d := service.NewDispatcher(s, service.WithEngine(instantEngine()), service.WithClock(at(wednesdayAfternoon)))
			_, err := d.Fire(ctx, model.WorkToHome)
			So(err, ShouldBeNil)
			first := rec.Frames()
			rec.Reset()
			_, err = d.Fire(ctx, model.WorkToHome)
			So(err, ShouldBeNil)

			Convey("Then the second run is identical", func() {
				So(rec.Frames(), ShouldResemble, first)
			})
		})

		Convey("When the palette overrides a colour", func() {
			p, err := palette.New(map[string]string{"calendar": "#010203"})
			So(err, ShouldBeNil)
			d := service.NewDispatcher(s,
				service.WithEngine(instantEngine()),
				service.WithClock(at(wednesdayAfternoon)),
				service.WithPalette(p),
			)
			_, err = d.Fire(ctx, model.Calendar)

			Convey("Then the override is shown", func() {
				So(err, ShouldBeNil)
				So(rec.Frames()[0].Pixels[29], ShouldResemble, strip.Color{R: 1, G: 2, B: 3})
			})
		})

		Convey("When the driver fails", func() {
			boom := errors.New("spi write failed")
			rec.FailAt(3, boom)
			d := service.NewDispatcher(s, service.WithEngine(instantEngine()), service.WithClock(at(wednesdayAfternoon)))
			outcome, err := d.Fire(ctx, model.HomeToWork)

			Convey("Then the commit error is returned", func() {
				So(outcome, ShouldEqual, model.Fired)
				So(errors.Is(err, strip.ErrCommit), ShouldBeTrue)
				So(errors.Is(err, boom), ShouldBeTrue)
				So(len(rec.Frames()), ShouldEqual, 3)
			})
		})
	})
}

func TestDispatcher_Process(t *testing.T) {
	Convey("Given a dispatcher used as a worker processor", t, func() {
		ctx := context.Background()
		s, rec := newTestStrip(10)
		d := service.NewDispatcher(s, service.WithEngine(instantEngine()), service.WithClock(at(wednesdayAfternoon)))

		Convey("Then a named job skips classification", func() {
			res := d.Process(ctx, model.Job{Type: model.Settings, Raw: directions("0", "2")})
			So(res.Type, ShouldEqual, model.Settings)
			So(res.Outcome, ShouldEqual, model.Fired)
			So(rec.Frames()[0].Pixels[4], ShouldResemble, strip.Color{G: 255, B: 50})
		})

		Convey("Then a raw job is classified", func() {
			res := d.Process(ctx, model.Job{Raw: directions("1", "2")})
			So(res.Type, ShouldEqual, model.HomeToWork)
			So(res.Outcome, ShouldEqual, model.Fired)
			So(res.Err, ShouldBeNil)
		})
	})
}

func TestDispatcher_Bus(t *testing.T) {
	Convey("Given a dispatcher publishing on a bus", t, func() {
		ctx := context.Background()
		bus := events.New()
		stats := service.NewStats(bus)
		defer stats.Close()
		s, _ := newTestStrip(5)
		d := service.NewDispatcher(s,
			service.WithEngine(instantEngine()),
			service.WithClock(at(wednesdayAfternoon)),
			service.WithBus(bus),
		)

		_, _ = d.Fire(ctx, model.Calendar)
		_, _ = d.Handle(ctx, model.RawEvent{Action: "nope"})

		Convey("Then the stats recorder counts both outcomes", func() {
			So(eventually(func() bool {
				snap := stats.Snapshot()
				return snap.Fired["calendar"] == 1 && snap.Dropped[events.ReasonUnrecognized] == 1
			}), ShouldBeTrue)

			snap := stats.Snapshot()
			So(snap.Last, ShouldNotBeNil)
			So(snap.Last.Type, ShouldEqual, "calendar")
			So(snap.Last.Pattern, ShouldEqual, "spread")
			So(snap.Last.Color, ShouldEqual, "(150, 0, 255)")
		})
	})
}

func TestPattern(t *testing.T) {
	Convey("Given the event types", t, func() {
		So(service.Pattern(model.Error), ShouldEqual, animation.PatternBlink)
		for _, et := range model.EventTypes() {
			if et != model.Error {
				So(service.Pattern(et), ShouldEqual, animation.PatternSpread)
			}
		}
	})
}
