package comm

import "sync"

// MessageStatus is the lifecycle state of an Outbound record.
type MessageStatus int

const (
	Queued MessageStatus = iota
	Sent
	Verifying
	Received
	NotReceived
)

func (s MessageStatus) String() string {
	switch s {
	case Queued:
		return "QUEUED"
	case Sent:
		return "SENT"
	case Verifying:
		return "VERIFYING"
	case Received:
		return "RECEIVED"
	case NotReceived:
		return "NOTRECEIVED"
	default:
		return "UNKNOWN"
	}
}

// Tracker is a caller-owned status sink. The Communicator writes every
// status transition of the Outbound record it was handed to under the
// tracker's own lock; it is never read by the Communicator. Modeling it as
// a shared handle with interior mutability (rather than a raw pointer to a
// status field) means the Communicator never needs to outlive a tracker it
// writes to, and a caller can safely poll Status from another goroutine
// while the Communicator's single spin loop keeps writing to it.
type Tracker struct {
	mu     sync.Mutex
	status MessageStatus
}

// NewTracker returns a Tracker in the QUEUED state.
func NewTracker() *Tracker {
	return &Tracker{status: Queued}
}

// Status returns the most recently written status.
func (t *Tracker) Status() MessageStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Tracker) set(s MessageStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}
