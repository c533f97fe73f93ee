package wire

import "errors"

var (
	// ErrInvalidField is returned by the payload field accessors when the
	// requested address/width falls outside the message's data slice.
	ErrInvalidField = errors.New("wire: invalid field address or width")
	// ErrReservedMessageID is returned when constructing a Message with the
	// wildcard id (0xFFFF), which is reserved for Communicator.Receive.
	ErrReservedMessageID = errors.New("wire: message id 0xFFFF is reserved for the receive wildcard")
	// ErrTruncatedMessage is returned by DecodeMessage when buf is shorter
	// than the message header or its length does not match the header plus
	// its own declared data_length.
	ErrTruncatedMessage = errors.New("wire: truncated message bytes")
	// ErrLinkTimeout is returned by ReadPacket when the underlying reader
	// short-reads (the ByteLink contract's timeout signal).
	ErrLinkTimeout = errors.New("wire: link read timeout")
)
