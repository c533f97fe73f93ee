package link

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/danmuck/serialcomm/internal/testutil/testlog"
)

func TestLoopbackReadTimesOutWithoutData(t *testing.T) {
	testlog.Start(t)

	l := NewLoopback(5 * time.Millisecond)
	buf := make([]byte, 4)
	n, err := l.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 0 {
		t.Fatalf("n=%d want=0 (timeout)", n)
	}
}

func TestLoopbackInjectRxDelivers(t *testing.T) {
	testlog.Start(t)

	l := NewLoopback(20 * time.Millisecond)
	l.InjectRx([]byte("hello"))

	buf := make([]byte, 5)
	n, err := l.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 5 || !bytes.Equal(buf, []byte("hello")) {
		t.Fatalf("got n=%d buf=%q", n, buf)
	}
}

func TestLoopbackPipeCrossWiresPeers(t *testing.T) {
	testlog.Start(t)

	a := NewLoopback(50 * time.Millisecond)
	b := NewLoopback(50 * time.Millisecond)
	Pipe(a, b)

	if _, err := a.Write([]byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}
	buf := make([]byte, 4)
	n, err := b.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if n != 4 || string(buf) != "ping" {
		t.Fatalf("got n=%d buf=%q", n, buf)
	}
}

func TestLoopbackCloseUnblocksAndFails(t *testing.T) {
	testlog.Start(t)

	l := NewLoopback(50 * time.Millisecond)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := l.Read(make([]byte, 1)); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed on read, got %v", err)
	}
	if _, err := l.Write([]byte{1}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed on write, got %v", err)
	}
}
