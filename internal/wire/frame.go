package wire

import "encoding/binary"

// HeaderByte marks the start of a packet on the wire.
const HeaderByte byte = 0xAA

// EscapeByte precedes an escaped occurrence of HeaderByte or EscapeByte
// elsewhere in a packet.
const EscapeByte byte = 0x1B

// ReceiptType is the on-wire byte identifying what a packet is: a data
// frame that does or doesn't want a receipt, or a receipt itself.
type ReceiptType uint8

const (
	NotRequired      ReceiptType = 0
	Required         ReceiptType = 1
	Received         ReceiptType = 2
	ChecksumMismatch ReceiptType = 3
)

func (r ReceiptType) String() string {
	switch r {
	case NotRequired:
		return "NOT_REQUIRED"
	case Required:
		return "REQUIRED"
	case Received:
		return "RECEIVED"
	case ChecksumMismatch:
		return "CHECKSUM_MISMATCH"
	default:
		return "UNKNOWN"
	}
}

// prefixLen is the byte width of sequence(4) + receipt(1) + message
// header(5) that follows the header byte before the payload.
const prefixLen = 4 + 1 + HeaderBytes

// receiptFrameLen is the total byte width of a receipt frame: header(1) +
// sequence(4) + receipt(1) + id(2) + priority(1) + data_length(2) +
// checksum(1).
const receiptFrameLen = 12

// Checksum returns the XOR of every byte in data.
func Checksum(data []byte) byte {
	var c byte
	for _, b := range data {
		c ^= b
	}
	return c
}

// Escape applies the outbound escapement rule from the wire contract: the
// byte at offset 0 (the header) is emitted verbatim; every following byte
// equal to HeaderByte or EscapeByte is replaced with EscapeByte, byte-1.
func Escape(packet []byte) []byte {
	if len(packet) == 0 {
		return nil
	}
	out := make([]byte, 1, len(packet)+4)
	out[0] = packet[0]
	for _, b := range packet[1:] {
		if b == HeaderByte || b == EscapeByte {
			out = append(out, EscapeByte, b-1)
		} else {
			out = append(out, b)
		}
	}
	return out
}

// Unescape reverses Escape over a complete in-memory buffer. It exists for
// whole-packet round-trip tests; ReadPacket performs the same
// un-escapement incrementally against a live link via Unescaper.
func Unescape(escaped []byte) []byte {
	if len(escaped) == 0 {
		return nil
	}
	out := make([]byte, 1, len(escaped))
	out[0] = escaped[0]
	var u Unescaper
	for _, b := range escaped[1:] {
		if v, ok := u.Feed(b); ok {
			out = append(out, v)
		}
	}
	return out
}

// Unescaper applies the inbound un-escapement rule one raw byte at a time.
// Its latch persists across separate Feed calls (and therefore across
// separate link reads) exactly as the wire contract requires within a
// single packet; call Reset between packets.
type Unescaper struct {
	latch bool
}

// Feed consumes one raw byte. ok is false when the byte was an escape
// marker that must be absorbed before a byte can be delivered; ok is true
// when out is a fully un-escaped payload byte.
func (u *Unescaper) Feed(b byte) (out byte, ok bool) {
	if b == EscapeByte {
		u.latch = true
		return 0, false
	}
	if u.latch {
		out = b + 1
	} else {
		out = b
	}
	u.latch = false
	return out, true
}

// Reset clears the latch.
func (u *Unescaper) Reset() { u.latch = false }

// EncodeDataPacket builds a fully-framed, escaped data packet carrying msg.
func EncodeDataPacket(sequence uint32, receipt ReceiptType, msg *Message) []byte {
	body := make([]byte, 0, 1+prefixLen+msg.WireLen()+1)
	body = append(body, HeaderByte)
	body = appendUint32(body, sequence)
	body = append(body, byte(receipt))
	body = append(body, msg.Encode()...)
	body = append(body, Checksum(body))
	return Escape(body)
}

// EncodeReceiptFrame builds a fully-framed, escaped 12-byte receipt.
func EncodeReceiptFrame(sequence uint32, receipt ReceiptType, id uint16, priority uint8) []byte {
	body := make([]byte, 0, receiptFrameLen)
	body = append(body, HeaderByte)
	body = appendUint32(body, sequence)
	body = append(body, byte(receipt))
	body = appendUint16(body, id)
	body = append(body, priority)
	body = appendUint16(body, 0)
	body = append(body, Checksum(body))
	return Escape(body)
}

func appendUint32(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

func appendUint16(dst []byte, v uint16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return append(dst, buf[:]...)
}
