// Package comm implements the protocol engine: the Outbound/Inbound
// bookkeeping records, the fixed-capacity slot arrays, and the Communicator
// that orchestrates them against an internal/link.ByteLink using
// internal/wire for framing.
//
// Ownership boundary:
//   - message lifecycle bookkeeping (sequence numbers, transmit counts,
//     status tracking)
//   - the priority/age transmit scheduler and its retransmission policy
//   - the receive-side dispatch on receipt type
//
// The Communicator is driven entirely by external calls to Spin (and the
// Send/Receive entry points); it starts no goroutines and is not safe for
// concurrent use by multiple callers — the single-threaded cooperative
// model is deliberate, not an oversight, and a caller wanting concurrent
// access must wrap the whole Communicator in its own mutex.
package comm
