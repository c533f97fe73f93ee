package link

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by Read/Write on a Loopback that has been closed.
var ErrClosed = errors.New("link: closed")

// Loopback is an in-memory ByteLink backed by a byte queue. Two Loopbacks
// can be cross-wired with Pipe to exercise a Communicator pair without a
// real serial device; a single Loopback fed with InjectRx is enough to
// drive one side of the protocol in isolation.
type Loopback struct {
	mu          sync.Mutex
	rx          []byte
	peer        *Loopback
	readTimeout time.Duration
	closed      bool
}

// NewLoopback creates an unconnected Loopback with the given read timeout.
// Use InjectRx to feed bytes directly, or Pipe to cross-wire two Loopbacks.
func NewLoopback(readTimeout time.Duration) *Loopback {
	return &Loopback{readTimeout: readTimeout}
}

// Pipe cross-wires a and b: writes to a arrive as reads on b, and vice
// versa.
func Pipe(a, b *Loopback) {
	a.peer = b
	b.peer = a
}

// InjectRx appends data directly to this Loopback's own read queue,
// bypassing any peer wiring. Useful for feeding a scripted byte stream
// straight at spin_rx in tests.
func (l *Loopback) InjectRx(data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rx = append(l.rx, data...)
}

func (l *Loopback) Open(ctx context.Context) error { return nil }

// Read attempts to fill buf. It returns fewer bytes than len(buf) (with a
// nil error) if the read timeout elapses before enough bytes arrive, per
// the ByteLink contract's timeout signal.
func (l *Loopback) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	deadline := time.Now().Add(l.readTimeout)
	n := 0
	for {
		l.mu.Lock()
		if len(l.rx) > 0 {
			c := copy(buf[n:], l.rx)
			l.rx = l.rx[c:]
			n += c
		}
		closed := l.closed
		l.mu.Unlock()
		if n == len(buf) {
			return n, nil
		}
		if closed {
			return n, ErrClosed
		}
		if time.Now().After(deadline) {
			return n, nil
		}
		time.Sleep(time.Millisecond)
	}
}

// Write hands data to the peer's read queue (or, if unwired, drops it).
func (l *Loopback) Write(data []byte) (int, error) {
	l.mu.Lock()
	closed := l.closed
	peer := l.peer
	l.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}
	if peer == nil {
		return len(data), nil
	}
	peer.InjectRx(data)
	return len(data), nil
}

func (l *Loopback) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rx = nil
	return nil
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

var _ ByteLink = (*Loopback)(nil)
