package comm

import "github.com/danmuck/serialcomm/internal/wire"

// Inbound is the bookkeeping wrapper around a received Message awaiting
// delivery to the application via Communicator.Receive.
type Inbound struct {
	Message        *wire.Message
	SequenceNumber uint64
}

// InboundSlots is the fixed-capacity RX slot array: first-fit insertion,
// linear scan for the highest-priority/oldest match.
type InboundSlots struct {
	slots []*Inbound
}

func newInboundSlots(capacity int) *InboundSlots {
	return &InboundSlots{slots: make([]*Inbound, capacity)}
}

func (s *InboundSlots) Len() int { return len(s.slots) }

func (s *InboundSlots) Occupied() int {
	n := 0
	for _, in := range s.slots {
		if in != nil {
			n++
		}
	}
	return n
}

func (s *InboundSlots) At(i int) *Inbound { return s.slots[i] }

// Insert places in in the first empty slot, returning false if the array
// is full (the message is dropped by the caller — fixed backpressure).
func (s *InboundSlots) Insert(in *Inbound) bool {
	for i, cur := range s.slots {
		if cur == nil {
			s.slots[i] = in
			return true
		}
	}
	return false
}

func (s *InboundSlots) Free(i int) { s.slots[i] = nil }

// FindBestMatch scans non-empty slots matching id (or every slot, if id is
// the wildcard) and returns the index of the one with highest
// Message.Priority, tie-broken by smallest SequenceNumber.
func (s *InboundSlots) FindBestMatch(id uint16) (int, *Inbound) {
	bestIdx := -1
	var best *Inbound
	for i, in := range s.slots {
		if in == nil {
			continue
		}
		if id != wire.WildcardID && in.Message.ID() != id {
			continue
		}
		if best == nil || betterInbound(in, best) {
			best = in
			bestIdx = i
		}
	}
	return bestIdx, best
}

func betterInbound(candidate, current *Inbound) bool {
	if candidate.Message.Priority() != current.Message.Priority() {
		return candidate.Message.Priority() > current.Message.Priority()
	}
	return candidate.SequenceNumber < current.SequenceNumber
}

// Resize grows or shrinks the array in place, preserving existing entries
// by position; when shrinking, entries beyond the new capacity move into the
// first free slots. Shrinking below current occupancy is rejected.
func (s *InboundSlots) Resize(capacity int) error {
	if capacity < s.Occupied() {
		return ErrQueueShrinkBelowOccupancy
	}
	next := make([]*Inbound, capacity)
	kept := copy(next, s.slots)
	free := 0
	for _, in := range s.slots[kept:] {
		if in == nil {
			continue
		}
		for next[free] != nil {
			free++
		}
		next[free] = in
	}
	s.slots = next
	return nil
}
