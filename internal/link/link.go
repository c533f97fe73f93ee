// Package link defines the ByteLink contract the protocol core consumes
// and a deterministic in-memory implementation used by tests and demos.
//
// A real serial-port-backed ByteLink (opening a device node, configuring
// baud/data/parity/stop bits, honoring a read deadline) is an external
// collaborator per this module's scope and is not implemented here — only
// its dial parameters (Config) and its contract (ByteLink) live in this
// package.
package link

import (
	"context"
	"time"
)

// Parity enumerates the serial parity modes a real ByteLink would honor.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

// Config carries the dial parameters for opening a serial-class ByteLink:
// port name, baud rate, data/parity/stop bits, and the read deadline every
// Read call should honor.
type Config struct {
	Port        string
	Baud        int
	DataBits    int
	Parity      Parity
	StopBits    int
	ReadTimeout time.Duration
}

// DefaultConfig mirrors the reference configuration: 8 data bits, no
// parity, 1 stop bit, ~30ms read timeout.
func DefaultConfig(port string, baud int) Config {
	return Config{
		Port:        port,
		Baud:        baud,
		DataBits:    8,
		Parity:      ParityNone,
		StopBits:    1,
		ReadTimeout: 30 * time.Millisecond,
	}
}

// ByteLink is the byte-oriented transport the Communicator drives. Read
// returning fewer bytes than requested, with a nil error, signals a
// timeout — not every caller wants a full n bytes back and the core relies
// on that distinction to abandon an in-progress spin_rx without state
// mutation. Any other error is a permanent link failure; the core never
// attempts to reopen a link on its own.
type ByteLink interface {
	Open(ctx context.Context) error
	Read(buf []byte) (n int, err error)
	Write(buf []byte) (n int, err error)
	Flush() error
	Close() error
}
