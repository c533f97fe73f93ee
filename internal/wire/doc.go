// Package wire owns the on-the-wire contract for the serial messaging core.
//
// Ownership boundary:
//   - the Message byte layout and its payload field accessors
//   - the framing codec: header/escape bytes, escapement, checksum
//   - packet encode/decode against a plain byte reader
//
// Nothing in this package blocks or retries; it is pure transformation over
// byte slices plus a single blocking read loop in ReadPacket that stops the
// instant the underlying reader reports a short read.
package wire
