package comm

// seenSet is a small bounded set of recently-observed inbound sequence
// numbers. It implements the optional, off-by-default duplicate
// suppression the design notes call out as an enhancement, not a
// contract: the base protocol delivers a REQUIRED message twice if the
// peer retransmits after its first RECEIVED receipt was lost, and this
// module does not mask that unless a caller opts in via
// Config.DuplicateSuppression.
type seenSet struct {
	capacity int
	order    []uint64
	members  map[uint64]struct{}
}

func newSeenSet(capacity int) *seenSet {
	if capacity <= 0 {
		capacity = 1
	}
	return &seenSet{
		capacity: capacity,
		members:  make(map[uint64]struct{}, capacity),
	}
}

func (s *seenSet) Contains(seq uint64) bool {
	_, ok := s.members[seq]
	return ok
}

func (s *seenSet) Add(seq uint64) {
	if s.Contains(seq) {
		return
	}
	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.members, oldest)
	}
	s.order = append(s.order, seq)
	s.members[seq] = struct{}{}
}
