package events

import (
	"testing"
	"time"

	"github.com/okian/headlights/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBus(t *testing.T) {
	Convey("Given a bus", t, func() {
		bus := New()

		Convey("When a Fired event is published", func() {
			got := make(chan Fired, 1)
			unsub := bus.Subscribe(func(e Fired) { got <- e })
			defer unsub()

			bus.Publish(Fired{Event: model.HomeToWork, Pattern: "spread"})

			Convey("Then its subscriber receives it", func() {
				select {
				case e := <-got:
					So(e.Event, ShouldEqual, model.HomeToWork)
					So(e.Pattern, ShouldEqual, "spread")
				case <-time.After(time.Second):
					So("timeout", ShouldBeEmpty)
				}
			})
		})

		Convey("When subscribers listen to different types", func() {
			fired := make(chan struct{}, 1)
			dropped := make(chan Dropped, 1)
			defer bus.Subscribe(func(Fired) { fired <- struct{}{} })()
			defer bus.Subscribe(func(e Dropped) { dropped <- e })()

			bus.Publish(Dropped{Event: model.Error, Reason: ReasonQuiet})

			Convey("Then only the matching one is called", func() {
				e := <-dropped
				So(e.Reason, ShouldEqual, ReasonQuiet)
				select {
				case <-fired:
					So("fired subscriber called", ShouldBeEmpty)
				case <-time.After(10 * time.Millisecond):
				}
			})
		})

		Convey("When a subscriber unsubscribes", func() {
			got := make(chan Failed, 1)
			unsub := bus.Subscribe(func(e Failed) { got <- e })
			bus.Publish(Failed{Event: model.Calendar})
			<-got
			unsub()
			bus.Publish(Failed{Event: model.Calendar})

			Convey("Then it receives nothing more", func() {
				select {
				case <-got:
					So("received after unsubscribe", ShouldBeEmpty)
				case <-time.After(10 * time.Millisecond):
				}
			})
		})

		Convey("When the handler type is unknown", func() {
			unsub := bus.Subscribe(func(string) {})

			Convey("Then a no-op unsubscribe is returned", func() {
				So(unsub, ShouldNotBeNil)
				So(func() { unsub() }, ShouldNotPanic)
			})
		})
	})

	Convey("Given a nil bus", t, func() {
		var bus *Bus
		So(func() { bus.Publish(Fired{}) }, ShouldNotPanic)
	})
}
