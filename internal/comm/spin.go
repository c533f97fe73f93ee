package comm

import (
	logs "github.com/danmuck/smplog"

	"github.com/danmuck/serialcomm/internal/wire"
)

// spinTX performs at most one transmit attempt per call: it scans the TX
// slots, retiring any VERIFYING entry that has exhausted its retransmission
// budget, then picks the highest-priority eligible candidate (ties broken
// by lowest sequence number, i.e. oldest) and transmits it.
func (c *Communicator) spinTX() error {
	idx, o := c.selectForTransmit()
	if o == nil {
		return nil
	}
	return c.transmit(idx, o)
}

func (c *Communicator) selectForTransmit() (int, *Outbound) {
	bestIdx := -1
	var best *Outbound

	for i := 0; i < c.tx.Len(); i++ {
		o := c.tx.At(i)
		if o == nil {
			continue
		}

		switch o.Status {
		case Queued:
			// always eligible
		case Verifying:
			if c.now().Sub(o.TransmitTime) < c.receiptTimeout {
				continue
			}
			if !o.CanRetransmit(c.maxTransmissions) {
				logs.Warnf("comm: sequence=%d id=%d exhausted retransmissions, giving up", o.SequenceNumber, o.Message.ID())
				o.setStatus(NotReceived)
				c.tx.Free(i)
				c.metrics.Drop("receipt_timeout_exhausted")
				continue
			}
		default:
			// SENT (fire-and-forget already delivered) and terminal states
			// should already have been freed; skip defensively.
			continue
		}

		if best == nil || isBetterCandidate(o, best) {
			best = o
			bestIdx = i
		}
	}
	return bestIdx, best
}

// isBetterCandidate reports whether candidate should be preferred over
// current: higher Message.Priority wins, ties broken by lower
// SequenceNumber (older message first).
func isBetterCandidate(candidate, current *Outbound) bool {
	if candidate.Message.Priority() != current.Message.Priority() {
		return candidate.Message.Priority() > current.Message.Priority()
	}
	return candidate.SequenceNumber < current.SequenceNumber
}

func (c *Communicator) transmit(idx int, o *Outbound) error {
	packet := wire.EncodeDataPacket(uint32(o.SequenceNumber), o.ReceiptType(), o.Message)
	if _, err := c.link.Write(packet); err != nil {
		return err
	}
	retransmit := o.NTransmissions > 0
	o.MarkTransmitted(c.now())
	c.metrics.Transmit(o.ReceiptType().String())
	if retransmit {
		c.metrics.Retransmit()
	}
	logs.Debugf("comm: transmitted sequence=%d id=%d attempt=%d receipt=%s", o.SequenceNumber, o.Message.ID(), o.NTransmissions, o.ReceiptType())

	if !o.ReceiptRequired {
		o.setStatus(Sent)
		c.tx.Free(idx)
		c.metrics.SetTXOccupancy(c.tx.Occupied())
		return nil
	}
	o.setStatus(Verifying)
	return nil
}

// spinRX performs at most one receive attempt per call: a single packet is
// read from the link (ErrLinkTimeout means nothing was waiting and is not
// an error), then dispatched as either a receipt for one of our own
// outbound packets or an inbound data packet.
func (c *Communicator) spinRX() error {
	decoded, err := wire.ReadPacket(c.link)
	if err != nil {
		if err == wire.ErrLinkTimeout {
			return nil
		}
		return err
	}

	switch decoded.ReceiptType {
	case wire.Received, wire.ChecksumMismatch:
		c.handleReceipt(decoded)
	default:
		c.handleDataPacket(decoded)
	}
	return nil
}

// handleReceipt resolves a receipt frame against our TX slots, matching the
// 32-bit wire sequence against the low 32 bits of each record's sequence
// number. Unknown or stale sequence numbers (the slot already freed, or a
// receipt for a sequence we never sent) are logged and otherwise ignored.
func (c *Communicator) handleReceipt(decoded *wire.DecodedPacket) {
	idx := -1
	var o *Outbound
	for i := 0; i < c.tx.Len(); i++ {
		if cur := c.tx.At(i); cur != nil && uint32(cur.SequenceNumber) == decoded.Sequence {
			idx, o = i, cur
			break
		}
	}
	if o == nil {
		logs.Debugf("comm: receipt for unknown sequence=%d ignored", decoded.Sequence)
		return
	}

	switch decoded.ReceiptType {
	case wire.Received:
		o.setStatus(Received)
		c.tx.Free(idx)
		c.metrics.SetTXOccupancy(c.tx.Occupied())
	case wire.ChecksumMismatch:
		// Peer detected a corrupted frame; resend it this same cycle rather
		// than waiting out the full receipt timeout, bounded by the same
		// retransmission budget the timeout path enforces.
		if o.CanRetransmit(c.maxTransmissions) {
			if err := c.transmit(idx, o); err != nil {
				logs.Warnf("comm: retransmit on checksum mismatch failed sequence=%d: %v", o.SequenceNumber, err)
			}
		} else {
			logs.Warnf("comm: sequence=%d id=%d exhausted retransmissions after checksum mismatch, giving up", o.SequenceNumber, o.Message.ID())
			o.setStatus(NotReceived)
			c.tx.Free(idx)
			c.metrics.Drop("checksum_mismatch_exhausted")
		}
	}
}

// handleDataPacket validates and, on success, enqueues an inbound data
// packet, always answering a REQUIRED packet with a receipt that reflects
// the checksum outcome. A packet is only enqueued to RX when its checksum
// actually passed, regardless of whether a receipt was requested.
func (c *Communicator) handleDataPacket(decoded *wire.DecodedPacket) {
	c.metrics.Receive(decoded.ChecksumOK)

	if !decoded.ChecksumOK {
		if decoded.ReceiptType == wire.Required {
			_ = c.sendReceipt(decoded.Sequence, wire.ChecksumMismatch, decoded.Message.ID(), decoded.Message.Priority())
		}
		c.metrics.Drop("checksum_mismatch")
		return
	}

	if c.dupSuppression && c.seen.Contains(uint64(decoded.Sequence)) {
		logs.Debugf("comm: duplicate sequence=%d suppressed", decoded.Sequence)
		if decoded.ReceiptType == wire.Required {
			_ = c.sendReceipt(decoded.Sequence, wire.Received, decoded.Message.ID(), decoded.Message.Priority())
		}
		return
	}

	if !c.enqueueInbound(decoded.Message, decoded.Sequence) {
		logs.Warnf("comm: rx queue full, dropping sequence=%d id=%d", decoded.Sequence, decoded.Message.ID())
		c.metrics.Drop("rx_queue_full")
	} else {
		c.metrics.SetRXOccupancy(c.rx.Occupied())
		if c.dupSuppression {
			c.seen.Add(uint64(decoded.Sequence))
		}
	}

	if decoded.ReceiptType == wire.Required {
		_ = c.sendReceipt(decoded.Sequence, wire.Received, decoded.Message.ID(), decoded.Message.Priority())
	}
}

func (c *Communicator) enqueueInbound(msg *wire.Message, seq uint32) bool {
	return c.rx.Insert(&Inbound{Message: msg, SequenceNumber: uint64(seq)})
}

func (c *Communicator) sendReceipt(sequence uint32, receipt wire.ReceiptType, id uint16, priority uint8) error {
	_, err := c.link.Write(wire.EncodeReceiptFrame(sequence, receipt, id, priority))
	return err
}
