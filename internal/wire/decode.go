package wire

import "encoding/binary"

// ByteReader is the minimal read contract ReadPacket needs. link.ByteLink
// satisfies it structurally; wire does not import the link package so the
// codec stays usable against any byte source, including bytes.Reader in
// tests.
type ByteReader interface {
	Read(buf []byte) (n int, err error)
}

// DecodedPacket is one fully-parsed, checksum-checked packet.
type DecodedPacket struct {
	Sequence    uint32
	ReceiptType ReceiptType
	Message     *Message
	ChecksumOK  bool
}

// ReadPacket performs the header-hunt, prefix-read, and tail-read steps of
// the receive path against r, un-escaping as it goes, and reports whether
// the recomputed checksum matches. A short read (r returning n < requested
// with a nil error) is reported as ErrLinkTimeout; any other error from r is
// propagated unchanged, since the wire contract treats that as a link
// failure rather than a recoverable timeout.
func ReadPacket(r ByteReader) (*DecodedPacket, error) {
	if err := huntHeader(r); err != nil {
		return nil, err
	}

	var u Unescaper
	prefix, err := readUnescaped(r, &u, prefixLen)
	if err != nil {
		return nil, err
	}
	sequence := binary.BigEndian.Uint32(prefix[0:4])
	receipt := ReceiptType(prefix[4])
	id := binary.BigEndian.Uint16(prefix[5:7])
	priority := prefix[7]
	dataLength := binary.BigEndian.Uint16(prefix[8:10])

	tail, err := readUnescaped(r, &u, int(dataLength)+1)
	if err != nil {
		return nil, err
	}
	data := tail[:dataLength]
	receivedChecksum := tail[dataLength]

	full := make([]byte, 0, 1+prefixLen+int(dataLength))
	full = append(full, HeaderByte)
	full = append(full, prefix...)
	full = append(full, data...)
	checksumOK := Checksum(full) == receivedChecksum

	msgData := make([]byte, dataLength)
	copy(msgData, data)

	return &DecodedPacket{
		Sequence:    sequence,
		ReceiptType: receipt,
		Message:     newMessageFromParts(id, priority, msgData),
		ChecksumOK:  checksumOK,
	}, nil
}

// huntHeader reads one byte at a time, with escape processing disabled,
// until HeaderByte is observed.
func huntHeader(r ByteReader) error {
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if err != nil {
			return err
		}
		if n < 1 {
			return ErrLinkTimeout
		}
		if b[0] == HeaderByte {
			return nil
		}
	}
}

// readUnescaped reads raw bytes from r, feeding each through u, until n
// un-escaped bytes have been produced. u's latch may already be set on
// entry and may remain set on return, carrying state across separate
// readUnescaped calls exactly as separate link reads would.
func readUnescaped(r ByteReader, u *Unescaper, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	var b [1]byte
	for len(out) < n {
		cnt, err := r.Read(b[:])
		if err != nil {
			return nil, err
		}
		if cnt < 1 {
			return nil, ErrLinkTimeout
		}
		if v, ok := u.Feed(b[0]); ok {
			out = append(out, v)
		}
	}
	return out, nil
}
