package driver_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/okian/headlights/internal/adapters/driver"
	"github.com/okian/headlights/internal/domain/strip"
	"github.com/okian/headlights/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given driver names", t, func() {
		l := logger.Nop()

		Convey("Then log, memory and opc are always available", func() {
			for _, name := range []string{"", "log", "memory", "opc", " LOG "} {
				d, err := driver.New(driver.Config{Name: name, OPCAddr: "127.0.0.1:1"}, l)
				So(err, ShouldBeNil)
				So(d, ShouldNotBeNil)
				So(d.Close(), ShouldBeNil)
			}
		})

		Convey("Then unknown names are rejected", func() {
			_, err := driver.New(driver.Config{Name: "dmx"}, l)
			So(errors.Is(err, driver.ErrUnknownDriver), ShouldBeTrue)
		})
	})
}

func TestMemory(t *testing.T) {
	Convey("Given a memory driver", t, func() {
		ctx := context.Background()
		m := driver.NewMemory()
		px := []strip.Color{{R: 1}, {G: 2}}

		Convey("When rendering frames", func() {
			So(m.Render(ctx, strip.Frame{Pixels: px, Brightness: 10}), ShouldBeNil)
			px[0] = strip.Color{B: 9}

			Convey("Then it keeps private copies", func() {
				f, ok := m.Last()
				So(ok, ShouldBeTrue)
				So(f.Pixels[0], ShouldResemble, strip.Color{R: 1})
				So(f.Brightness, ShouldEqual, 10)
				So(len(m.Frames()), ShouldEqual, 1)
			})
		})

		Convey("When configured to fail", func() {
			boom := errors.New("boom")
			m.FailAt(1, boom)
			So(m.Render(ctx, strip.Frame{Pixels: px}), ShouldBeNil)
			So(m.Render(ctx, strip.Frame{Pixels: px}), ShouldEqual, boom)
			So(len(m.Frames()), ShouldEqual, 1)
		})

		Convey("When closed", func() {
			So(m.Close(), ShouldBeNil)
			So(errors.Is(m.Render(ctx, strip.Frame{}), driver.ErrClosed), ShouldBeTrue)
		})
	})
}

func TestOPC(t *testing.T) {
	Convey("Given an OPC server", t, func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		So(err, ShouldBeNil)
		defer ln.Close()

		received := make(chan []byte, 1)
		go func() {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
			r := bufio.NewReader(conn)
			header := make([]byte, 4)
			if _, err := io.ReadFull(r, header); err != nil {
				return
			}
			n := int(header[2])<<8 | int(header[3])
			body := make([]byte, n)
			if _, err := io.ReadFull(r, body); err != nil {
				return
			}
			received <- append(header, body...)
		}()

		d := driver.NewOPC(ln.Addr().String(), 3)
		defer d.Close()

		Convey("When rendering a half-brightness frame", func() {
			f := strip.Frame{Pixels: []strip.Color{{R: 255, G: 100, B: 0}, {}}, Brightness: 51}
			So(d.Render(context.Background(), f), ShouldBeNil)

			Convey("Then the server receives a scaled set-pixels message", func() {
				select {
				case msg := <-received:
					So(msg, ShouldResemble, []byte{3, 0, 0, 6, 51, 20, 0, 0, 0, 0})
				case <-time.After(2 * time.Second):
					So("timeout", ShouldBeEmpty)
				}
			})
		})
	})

	Convey("Given no OPC server", t, func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		So(err, ShouldBeNil)
		addr := ln.Addr().String()
		So(ln.Close(), ShouldBeNil)

		d := driver.NewOPC(addr, 0)
		err = d.Render(context.Background(), strip.Frame{Pixels: []strip.Color{{}}})
		So(errors.Is(err, driver.ErrConnect), ShouldBeTrue)
	})
}
