package wire

import (
	"encoding/binary"
	"math"
)

// HeaderBytes is the fixed byte width of a Message's own header: id(2) +
// priority(1) + data_length(2).
const HeaderBytes = 5

// WildcardID is reserved for Communicator.Receive's "any id" lookup and
// must never be assigned to an outbound message.
const WildcardID uint16 = 0xFFFF

// Message is the immutable-by-convention in-memory representation of an
// application message: an id, a scheduling priority, and an opaque payload.
//
// Field accessors (SetUint16, GetFloat64, ...) treat Data as a flat byte
// array addressed by byte offset. Multi-byte integers are stored big-endian.
// Floats are stored by reinterpreting the IEEE-754 bit pattern as an
// unsigned integer of the same width and big-endian-encoding that integer,
// which round-trips exactly but assumes both peers share IEEE-754 float
// representation — true for every architecture this module targets, but
// worth stating since nothing in the wire format itself proves it.
type Message struct {
	id       uint16
	priority uint8
	data     []byte
}

// NewMessage constructs a Message with an empty payload.
func NewMessage(id uint16) (*Message, error) {
	if id == WildcardID {
		return nil, ErrReservedMessageID
	}
	return &Message{id: id}, nil
}

// NewMessageWithLength constructs a Message with a zero-initialized payload
// of the given length.
func NewMessageWithLength(id uint16, length uint16) (*Message, error) {
	if id == WildcardID {
		return nil, ErrReservedMessageID
	}
	return &Message{id: id, data: make([]byte, length)}, nil
}

// newMessageFromParts builds a Message from already-validated wire parts
// (used by DecodeMessage, which does not enforce the wildcard-id rule since
// a peer's misuse of it is a data problem, not a local construction error).
func newMessageFromParts(id uint16, priority uint8, data []byte) *Message {
	return &Message{id: id, priority: priority, data: data}
}

// DecodeMessage parses the §4.1 byte layout: id(2) | priority(1) |
// data_length(2) | data(N).
func DecodeMessage(buf []byte) (*Message, error) {
	if len(buf) < HeaderBytes {
		return nil, ErrTruncatedMessage
	}
	id := binary.BigEndian.Uint16(buf[0:2])
	priority := buf[2]
	dataLength := binary.BigEndian.Uint16(buf[3:5])
	if len(buf) != HeaderBytes+int(dataLength) {
		return nil, ErrTruncatedMessage
	}
	data := make([]byte, dataLength)
	copy(data, buf[HeaderBytes:])
	return newMessageFromParts(id, priority, data), nil
}

// Encode serializes m to its canonical byte layout.
func (m *Message) Encode() []byte {
	out := make([]byte, HeaderBytes+len(m.data))
	binary.BigEndian.PutUint16(out[0:2], m.id)
	out[2] = m.priority
	binary.BigEndian.PutUint16(out[3:5], uint16(len(m.data)))
	copy(out[HeaderBytes:], m.data)
	return out
}

// WireLen returns the total encoded length: data_length + 5.
func (m *Message) WireLen() int {
	return HeaderBytes + len(m.data)
}

func (m *Message) ID() uint16 { return m.id }

func (m *Message) Priority() uint8 { return m.priority }

// SetPriority assigns the scheduling priority. The original API this module
// was distilled from exposed only a getter; this setter is the explicit fix
// called for by that design's open question.
func (m *Message) SetPriority(p uint8) { m.priority = p }

func (m *Message) DataLength() uint16 { return uint16(len(m.data)) }

// Data returns a copy of the payload bytes.
func (m *Message) Data() []byte {
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out
}

// Equal reports whether m and other encode identically.
func (m *Message) Equal(other *Message) bool {
	if other == nil {
		return false
	}
	if m.id != other.id || m.priority != other.priority || len(m.data) != len(other.data) {
		return false
	}
	for i := range m.data {
		if m.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

func (m *Message) checkBounds(address, width int) error {
	if address < 0 || width <= 0 || address+width > len(m.data) {
		return ErrInvalidField
	}
	return nil
}

// SetUint8 writes a single payload byte at address.
func (m *Message) SetUint8(address int, v uint8) error {
	if err := m.checkBounds(address, 1); err != nil {
		return err
	}
	m.data[address] = v
	return nil
}

// GetUint8 reads a single payload byte at address.
func (m *Message) GetUint8(address int) (uint8, error) {
	if err := m.checkBounds(address, 1); err != nil {
		return 0, err
	}
	return m.data[address], nil
}

// SetUint16 writes a big-endian uint16 at address.
func (m *Message) SetUint16(address int, v uint16) error {
	if err := m.checkBounds(address, 2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(m.data[address:], v)
	return nil
}

// GetUint16 reads a big-endian uint16 at address.
func (m *Message) GetUint16(address int) (uint16, error) {
	if err := m.checkBounds(address, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(m.data[address:]), nil
}

// SetUint32 writes a big-endian uint32 at address.
func (m *Message) SetUint32(address int, v uint32) error {
	if err := m.checkBounds(address, 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(m.data[address:], v)
	return nil
}

// GetUint32 reads a big-endian uint32 at address.
func (m *Message) GetUint32(address int) (uint32, error) {
	if err := m.checkBounds(address, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(m.data[address:]), nil
}

// SetUint64 writes a big-endian uint64 at address.
func (m *Message) SetUint64(address int, v uint64) error {
	if err := m.checkBounds(address, 8); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(m.data[address:], v)
	return nil
}

// GetUint64 reads a big-endian uint64 at address.
func (m *Message) GetUint64(address int) (uint64, error) {
	if err := m.checkBounds(address, 8); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(m.data[address:]), nil
}

// SetFloat32 writes a big-endian IEEE-754 single-precision float at address.
func (m *Message) SetFloat32(address int, v float32) error {
	if err := m.checkBounds(address, 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(m.data[address:], math.Float32bits(v))
	return nil
}

// GetFloat32 reads a big-endian IEEE-754 single-precision float at address.
func (m *Message) GetFloat32(address int) (float32, error) {
	if err := m.checkBounds(address, 4); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(m.data[address:])), nil
}

// SetFloat64 writes a big-endian IEEE-754 double-precision float at address.
func (m *Message) SetFloat64(address int, v float64) error {
	if err := m.checkBounds(address, 8); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(m.data[address:], math.Float64bits(v))
	return nil
}

// GetFloat64 reads a big-endian IEEE-754 double-precision float at address.
func (m *Message) GetFloat64(address int) (float64, error) {
	if err := m.checkBounds(address, 8); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(m.data[address:])), nil
}
