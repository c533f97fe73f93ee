package wire

import (
	"bytes"
	"testing"

	"github.com/danmuck/serialcomm/internal/testutil/testlog"
)

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	testlog.Start(t)

	packets := [][]byte{
		{HeaderByte, 0x00, 0x01, 0x02},
		{HeaderByte, HeaderByte, EscapeByte, 0x00, HeaderByte, EscapeByte},
		{HeaderByte, 0x00},
		{0x01},
	}
	for _, p := range packets {
		escaped := Escape(p)
		got := Unescape(escaped)
		if !bytes.Equal(got, p) {
			t.Fatalf("round trip mismatch: in=%x escaped=%x out=%x", p, escaped, got)
		}
	}
}

func TestEscapementInvariant(t *testing.T) {
	testlog.Start(t)

	packet := []byte{HeaderByte, HeaderByte, 0x10, EscapeByte, 0x20, HeaderByte}
	escaped := Escape(packet)

	if escaped[0] != HeaderByte {
		t.Fatalf("first byte must be header, got %x", escaped[0])
	}
	for i := 1; i < len(escaped); i++ {
		if escaped[i] == HeaderByte {
			t.Fatalf("header byte %x found mid-packet at offset %d: %x", HeaderByte, i, escaped)
		}
	}
	for i := 1; i < len(escaped); i++ {
		if escaped[i] == EscapeByte {
			if i+1 >= len(escaped) {
				t.Fatalf("trailing escape byte with no follower: %x", escaped)
			}
			next := escaped[i+1]
			if next != HeaderByte-1 && next != EscapeByte-1 {
				t.Fatalf("escape at %d followed by unexpected byte %x: %x", i, next, escaped)
			}
			i++
		}
	}
}

func TestChecksumXOR(t *testing.T) {
	testlog.Start(t)

	if got := Checksum([]byte{0xFF, 0x0F, 0xF0}); got != 0x00 {
		t.Fatalf("checksum=%x want=0x00", got)
	}
	if got := Checksum(nil); got != 0x00 {
		t.Fatalf("checksum of empty=%x want=0x00", got)
	}
}

func TestEncodeDataPacketS1FireAndForget(t *testing.T) {
	testlog.Start(t)

	msg, err := NewMessage(0x0001)
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	got := EncodeDataPacket(0, NotRequired, msg)
	want := []byte{0xAA, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0xAB}
	if !bytes.Equal(got, want) {
		t.Fatalf("S1 mismatch:\n got=%x\nwant=%x", got, want)
	}
}

func TestEncodeDataPacketS2PayloadEscaped(t *testing.T) {
	testlog.Start(t)

	msg, err := NewMessageWithLength(0x0002, 1)
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	if err := msg.SetUint8(0, HeaderByte); err != nil {
		t.Fatalf("set payload byte: %v", err)
	}
	got := EncodeDataPacket(1, NotRequired, msg)

	unescaped := Unescape(got)
	want := []byte{0xAA, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x02, 0x00, 0x00, 0x01, 0xAA}
	want[len(want)-1] = Checksum(want[:len(want)-1])
	if !bytes.Equal(unescaped, want) {
		t.Fatalf("S2 pre-escape mismatch:\n got=%x\nwant=%x", unescaped, want)
	}
	// the payload's literal 0xAA must have been escaped on the wire.
	idx := bytes.IndexByte(got[1:], EscapeByte)
	if idx == -1 {
		t.Fatalf("expected an escape byte in %x", got)
	}
}

func TestEncodeReceiptFrameLength(t *testing.T) {
	testlog.Start(t)

	frame := EncodeReceiptFrame(7, Received, 0x0003, 2)
	unescaped := Unescape(frame)
	if len(unescaped) != receiptFrameLen {
		t.Fatalf("receipt frame len=%d want=%d", len(unescaped), receiptFrameLen)
	}
	if ReceiptType(unescaped[5]) != Received {
		t.Fatalf("receipt type byte=%v want=%v", ReceiptType(unescaped[5]), Received)
	}
	if unescaped[9] != 0 || unescaped[10] != 0 {
		t.Fatalf("receipt data_length must be zero: %x", unescaped[9:11])
	}
}
