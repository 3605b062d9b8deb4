package driver

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/okian/headlights/internal/domain/strip"
)

const (
	opcHeaderLen     = 4
	opcSetPixels     = 0
	opcDialTimeout   = 2 * time.Second
	opcWriteDeadline = time.Second
)

// OPC streams frames to an Open Pixel Control server such as a Fadecandy
// fcserver. Brightness is applied in software since OPC has no brightness
// command. The connection is dialled lazily and re-dialled after a failed
// write.
type OPC struct {
	addr    string
	channel uint8

	mu   sync.Mutex
	conn net.Conn
	buf  []byte
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewOPC creates an OPC driver for addr ("host:port") and channel.
func NewOPC(addr string, channel uint8) *OPC {
	d := &net.Dialer{Timeout: opcDialTimeout}
	return &OPC{addr: addr, channel: channel, dial: d.DialContext}
}

// Render sends f as a set-pixel-colours message.
func (o *OPC) Render(ctx context.Context, f strip.Frame) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.conn == nil {
		conn, err := o.dial(ctx, "tcp", o.addr)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConnect, o.addr, err)
		}
		o.conn = conn
	}

	msg := o.encode(f)
	if dl, ok := ctx.Deadline(); ok {
		_ = o.conn.SetWriteDeadline(dl)
	} else {
		_ = o.conn.SetWriteDeadline(time.Now().Add(opcWriteDeadline))
	}
	if _, err := o.conn.Write(msg); err != nil {
		_ = o.conn.Close()
		o.conn = nil
		return fmt.Errorf("opc write: %w", err)
	}
	return nil
}

// encode builds the OPC message: channel, command, big-endian length, RGB data.
func (o *OPC) encode(f strip.Frame) []byte {
	n := opcHeaderLen + 3*len(f.Pixels)
	if cap(o.buf) < n {
		o.buf = make([]byte, n)
	}
	msg := o.buf[:n]
	msg[0] = o.channel
	msg[1] = opcSetPixels
	binary.BigEndian.PutUint16(msg[2:4], uint16(3*len(f.Pixels)))
	for i, c := range f.Pixels {
		c = c.Scale(f.Brightness)
		p := opcHeaderLen + 3*i
		msg[p], msg[p+1], msg[p+2] = c.R, c.G, c.B
	}
	return msg
}

// Close closes the connection if open.
func (o *OPC) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.conn == nil {
		return nil
	}
	err := o.conn.Close()
	o.conn = nil
	return err
}
