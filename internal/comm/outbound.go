package comm

import (
	"time"

	"github.com/danmuck/serialcomm/internal/wire"
)

// Outbound is the bookkeeping wrapper around a Message awaiting or
// undergoing transmission.
type Outbound struct {
	Message         *wire.Message
	SequenceNumber  uint64
	ReceiptRequired bool
	Tracker         *Tracker
	TransmitTime    time.Time
	NTransmissions  uint8
	Status          MessageStatus
}

func newOutbound(msg *wire.Message, seq uint64, receiptRequired bool, tracker *Tracker) *Outbound {
	o := &Outbound{
		Message:         msg,
		SequenceNumber:  seq,
		ReceiptRequired: receiptRequired,
		Tracker:         tracker,
	}
	o.setStatus(Queued)
	return o
}

func (o *Outbound) setStatus(s MessageStatus) {
	o.Status = s
	if o.Tracker != nil {
		o.Tracker.set(s)
	}
}

// MarkTransmitted records a transmission attempt at t.
func (o *Outbound) MarkTransmitted(t time.Time) {
	o.TransmitTime = t
	o.NTransmissions++
}

// CanRetransmit reports whether another transmission attempt is allowed
// under max.
func (o *Outbound) CanRetransmit(max uint8) bool {
	return o.NTransmissions < max
}

// ReceiptType is the wire receipt-type byte this record's next
// transmission should carry.
func (o *Outbound) ReceiptType() wire.ReceiptType {
	if o.ReceiptRequired {
		return wire.Required
	}
	return wire.NotRequired
}

// OutboundSlots is the fixed-capacity TX slot array: first-fit insertion,
// linear scan for selection and lookup. A nil element is an empty slot.
// This is deliberately not a generic container — selection must also skip
// VERIFYING entries still inside their receipt timeout, a predicate a
// priority heap cannot express as a pure key.
type OutboundSlots struct {
	slots []*Outbound
}

func newOutboundSlots(capacity int) *OutboundSlots {
	return &OutboundSlots{slots: make([]*Outbound, capacity)}
}

// Len returns the array's capacity (not its occupancy).
func (s *OutboundSlots) Len() int { return len(s.slots) }

// Occupied returns the number of non-empty slots.
func (s *OutboundSlots) Occupied() int {
	n := 0
	for _, o := range s.slots {
		if o != nil {
			n++
		}
	}
	return n
}

// At returns the slot's contents (nil if empty).
func (s *OutboundSlots) At(i int) *Outbound { return s.slots[i] }

// Insert places o in the first empty slot, returning false if the array is
// full.
func (s *OutboundSlots) Insert(o *Outbound) bool {
	for i, cur := range s.slots {
		if cur == nil {
			s.slots[i] = o
			return true
		}
	}
	return false
}

// Free empties slot i.
func (s *OutboundSlots) Free(i int) { s.slots[i] = nil }

// FindBySequence linearly scans for a non-empty slot with the given
// sequence number.
func (s *OutboundSlots) FindBySequence(seq uint64) (int, *Outbound) {
	for i, o := range s.slots {
		if o != nil && o.SequenceNumber == seq {
			return i, o
		}
	}
	return -1, nil
}

// Resize grows or shrinks the array in place, preserving existing entries
// by position; the new tail (if growing) is empty. When shrinking, entries
// beyond the new capacity move into the first free slots. Shrinking below
// current occupancy is rejected rather than silently leaking trailing entries.
func (s *OutboundSlots) Resize(capacity int) error {
	if capacity < s.Occupied() {
		return ErrQueueShrinkBelowOccupancy
	}
	next := make([]*Outbound, capacity)
	kept := copy(next, s.slots)
	free := 0
	for _, o := range s.slots[kept:] {
		if o == nil {
			continue
		}
		for next[free] != nil {
			free++
		}
		next[free] = o
	}
	s.slots = next
	return nil
}
