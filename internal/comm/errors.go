package comm

import "errors"

var (
	// ErrQueueShrinkBelowOccupancy is returned by SetQueueSize when the
	// requested capacity is smaller than the number of slots currently
	// occupied in either the transmit or receive array.
	ErrQueueShrinkBelowOccupancy = errors.New("comm: cannot shrink queue below current occupancy")
)
