package comm

import (
	"time"

	logs "github.com/danmuck/smplog"

	"github.com/danmuck/serialcomm/internal/link"
	"github.com/danmuck/serialcomm/internal/metrics"
	"github.com/danmuck/serialcomm/internal/wire"
)

// Config carries the tunable parameters from §4.5: queue capacity, receipt
// timeout, max transmissions, and the optional duplicate-suppression
// enhancement from the design notes.
type Config struct {
	QueueSize            uint16
	ReceiptTimeout       time.Duration
	MaxTransmissions     uint8
	DuplicateSuppression bool
	DuplicateWindow      int
}

// DefaultConfig mirrors the reference defaults: 10-slot queues, 100ms
// receipt timeout, 5 max transmissions, duplicate suppression off.
func DefaultConfig() Config {
	return Config{
		QueueSize:        10,
		ReceiptTimeout:   100 * time.Millisecond,
		MaxTransmissions: 5,
		DuplicateWindow:  64,
	}
}

// Communicator is the protocol engine instance owning the TX/RX slot
// arrays and the link. It is driven entirely by Send/Receive and by
// repeated calls to Spin; it starts no goroutines and is not safe for
// concurrent use.
type Communicator struct {
	link link.ByteLink

	tx *OutboundSlots
	rx *InboundSlots

	sequenceCounter uint64

	receiptTimeout   time.Duration
	maxTransmissions uint8

	dupSuppression bool
	seen           *seenSet

	metrics *metrics.Recorder

	now func() time.Time
}

// New constructs a Communicator bound to l. rec may be nil to disable
// metrics instrumentation.
func New(l link.ByteLink, cfg Config, rec *metrics.Recorder) *Communicator {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 10
	}
	c := &Communicator{
		link:             l,
		tx:               newOutboundSlots(int(cfg.QueueSize)),
		rx:               newInboundSlots(int(cfg.QueueSize)),
		receiptTimeout:   cfg.ReceiptTimeout,
		maxTransmissions: cfg.MaxTransmissions,
		dupSuppression:   cfg.DuplicateSuppression,
		metrics:          rec,
		now:              time.Now,
	}
	if cfg.DuplicateSuppression {
		c.seen = newSeenSet(cfg.DuplicateWindow)
	}
	rec.SetQueueCapacity(cfg.QueueSize)
	return c
}

// Send places msg into the TX queue. The Communicator takes ownership of
// msg; on failure (the queue is full) msg is dropped and Send returns
// false. tracker may be nil.
func (c *Communicator) Send(msg *wire.Message, receiptRequired bool, tracker *Tracker) bool {
	seq := c.sequenceCounter
	c.sequenceCounter++

	out := newOutbound(msg, seq, receiptRequired, tracker)
	if !c.tx.Insert(out) {
		logs.Warnf("comm: tx queue full, dropping message id=%d", msg.ID())
		c.metrics.Drop("tx_queue_full")
		return false
	}
	c.metrics.SetTXOccupancy(c.tx.Occupied())
	logs.Debugf("comm: enqueued sequence=%d id=%d priority=%d receipt_required=%v", seq, msg.ID(), msg.Priority(), receiptRequired)
	return true
}

// MessagesAvailable returns the number of non-empty RX slots.
func (c *Communicator) MessagesAvailable() uint16 {
	return uint16(c.rx.Occupied())
}

// Receive returns the highest-priority, oldest message matching id (or any
// message, for the wildcard id), transferring ownership to the caller.
func (c *Communicator) Receive(id uint16) (*wire.Message, bool) {
	idx, in := c.rx.FindBestMatch(id)
	if in == nil {
		return nil, false
	}
	c.rx.Free(idx)
	c.metrics.SetRXOccupancy(c.rx.Occupied())
	return in.Message, true
}

// Spin performs at most one transmit attempt and at most one receive
// attempt. It is meant to be called at a fixed external rate.
func (c *Communicator) Spin() error {
	if err := c.spinTX(); err != nil {
		return err
	}
	return c.spinRX()
}

// QueueSize returns the current capacity of both slot arrays.
func (c *Communicator) QueueSize() uint16 { return uint16(c.tx.Len()) }

// SetQueueSize resizes both slot arrays, preserving existing entries (those
// past a reduced capacity move into free slots). Shrinking below either
// array's current occupancy is rejected.
func (c *Communicator) SetQueueSize(v uint16) error {
	if int(v) < c.tx.Occupied() || int(v) < c.rx.Occupied() {
		return ErrQueueShrinkBelowOccupancy
	}
	if err := c.tx.Resize(int(v)); err != nil {
		return err
	}
	if err := c.rx.Resize(int(v)); err != nil {
		return err
	}
	c.metrics.SetQueueCapacity(v)
	return nil
}

// ReceiptTimeout returns the configured receipt timeout.
func (c *Communicator) ReceiptTimeout() time.Duration { return c.receiptTimeout }

// SetReceiptTimeout sets the receipt timeout.
func (c *Communicator) SetReceiptTimeout(d time.Duration) { c.receiptTimeout = d }

// MaxTransmissions returns the configured max transmission count.
func (c *Communicator) MaxTransmissions() uint8 { return c.maxTransmissions }

// SetMaxTransmissions sets the max transmission count.
func (c *Communicator) SetMaxTransmissions(v uint8) { c.maxTransmissions = v }
