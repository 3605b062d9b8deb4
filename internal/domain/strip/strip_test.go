package strip_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/headlights/internal/adapters/driver"
	"github.com/okian/headlights/internal/domain/strip"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStrip(t *testing.T) {
	Convey("Given a strip of 5 pixels", t, func() {
		ctx := context.Background()
		rec := driver.NewMemory()
		s, err := strip.New(5, rec)
		So(err, ShouldBeNil)
		red := strip.Color{R: 255}

		Convey("Then it starts dark at full brightness", func() {
			So(s.Len(), ShouldEqual, 5)
			So(s.Brightness(), ShouldEqual, strip.MaxBrightness)
			for _, c := range s.Pixels() {
				So(c, ShouldResemble, strip.Off)
			}
		})

		Convey("When writing a pixel", func() {
			So(s.SetPixel(4, red), ShouldBeNil)

			Convey("Then nothing reaches the driver until commit", func() {
				So(len(rec.Frames()), ShouldEqual, 0)
				So(s.Commit(ctx), ShouldBeNil)
				f, _ := rec.Last()
				So(f.Pixels[4], ShouldResemble, red)
				So(f.Brightness, ShouldEqual, 255)
			})
		})

		Convey("When writing outside the strip", func() {
			for _, i := range []int{-1, 5, 100} {
				err := s.SetPixel(i, red)
				So(errors.Is(err, strip.ErrOutOfRange), ShouldBeTrue)
				var oor *strip.OutOfRangeError
				So(errors.As(err, &oor), ShouldBeTrue)
				So(oor.Index, ShouldEqual, i)
				So(oor.Len, ShouldEqual, 5)
			}
			_, err := s.Pixel(5)
			So(errors.Is(err, strip.ErrOutOfRange), ShouldBeTrue)
		})

		Convey("When setting brightness", func() {
			So(s.SetPixel(0, red), ShouldBeNil)
			s.SetBrightness(-20)
			So(s.Brightness(), ShouldEqual, 0)
			s.SetBrightness(300)
			So(s.Brightness(), ShouldEqual, 255)
			s.SetBrightness(128)
			So(s.Brightness(), ShouldEqual, 128)

			Convey("Then stored colours are unchanged", func() {
				c, err := s.Pixel(0)
				So(err, ShouldBeNil)
				So(c, ShouldResemble, red)
			})
		})

		Convey("When filling", func() {
			So(s.Fill(ctx, red), ShouldBeNil)

			Convey("Then every pixel is set and one frame is committed", func() {
				frames := rec.Frames()
				So(len(frames), ShouldEqual, 1)
				for _, c := range frames[0].Pixels {
					So(c, ShouldResemble, red)
				}
			})
		})

		Convey("When the driver fails", func() {
			boom := errors.New("spi gone")
			rec.FailAt(0, boom)
			err := s.Commit(ctx)
			So(errors.Is(err, strip.ErrCommit), ShouldBeTrue)
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})

	Convey("Given invalid construction arguments", t, func() {
		_, err := strip.New(0, driver.NewMemory())
		So(errors.Is(err, strip.ErrInvalidLength), ShouldBeTrue)
		_, err = strip.New(3, nil)
		So(errors.Is(err, strip.ErrNoDriver), ShouldBeTrue)
	})
}

func TestColorScale(t *testing.T) {
	Convey("Given a colour", t, func() {
		c := strip.Color{R: 200, G: 100, B: 50}
		So(c.Scale(255), ShouldResemble, c)
		So(c.Scale(0), ShouldResemble, strip.Off)
		So(c.Scale(51), ShouldResemble, strip.Color{R: 40, G: 20, B: 10})
		So(c.String(), ShouldEqual, "(200, 100, 50)")
	})
}
