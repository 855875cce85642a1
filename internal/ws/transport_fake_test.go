package ws

import (
	"errors"
	"io"
	"sync"
)

var errFakeClosed = errors.New("use of closed network connection")

// fakeTransport feeds frames from in and records every write.
type fakeTransport struct {
	in     chan []byte
	writes chan []byte

	failWrites bool

	outboundOnce sync.Once
	outbound     chan struct{}
	closeOnce    sync.Once
	closed       chan struct{}
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		in:       make(chan []byte, 16),
		writes:   make(chan []byte, 64),
		outbound: make(chan struct{}),
		closed:   make(chan struct{}),
	}
}

func (f *fakeTransport) ReadText() ([]byte, error) {
	select {
	case frame, ok := <-f.in:
		if !ok {
			return nil, io.EOF
		}
		return frame, nil
	case <-f.closed:
		return nil, errFakeClosed
	}
}

func (f *fakeTransport) WriteText(data []byte) error {
	if f.failWrites {
		return errors.New("broken pipe")
	}
	select {
	case <-f.closed:
		return errFakeClosed
	default:
	}
	f.writes <- append([]byte(nil), data...)
	return nil
}

func (f *fakeTransport) CloseOutbound() error {
	f.outboundOnce.Do(func() { close(f.outbound) })
	return nil
}

func (f *fakeTransport) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeTransport) send(frame string) { f.in <- []byte(frame) }

// hangUp ends the client side of the connection.
func (f *fakeTransport) hangUp() { close(f.in) }

func (f *fakeTransport) outboundClosed() bool {
	select {
	case <-f.outbound:
		return true
	default:
		return false
	}
}
