// Package metrics instruments a Communicator with Prometheus counters and
// gauges, grounded on the teacher's internal/observability package. Unlike
// the teacher's HTTP/seed-proxy metrics, there is no HTTP surface here, so
// only the prometheus half of that package's stack is carried forward.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

// Recorder wraps the Prometheus collectors for a single Communicator
// instance. All methods are nil-receiver-safe so callers can construct a
// Communicator without metrics by passing a nil *Recorder.
type Recorder struct {
	transmits   *prometheus.CounterVec
	receives    *prometheus.CounterVec
	retransmits prometheus.Counter
	drops       *prometheus.CounterVec
	txOccupancy prometheus.Gauge
	rxOccupancy prometheus.Gauge
	queueCap    prometheus.Gauge
}

// New builds a Recorder scoped by link, e.g. a port name or peer
// identifier, used as a constant label across all of its series. Only the
// first Recorder built in a process is registered with the default
// Prometheus registry; later ones are built but not registered.
func New(link string) *Recorder {
	constLabels := prometheus.Labels{"link": link}

	r := &Recorder{
		transmits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "serialcomm",
			Name:        "transmits_total",
			Help:        "Total data packets transmitted, by receipt type.",
			ConstLabels: constLabels,
		}, []string{"receipt_type"}),
		receives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "serialcomm",
			Name:        "receives_total",
			Help:        "Total data packets received and checksum-validated.",
			ConstLabels: constLabels,
		}, []string{"checksum_ok"}),
		retransmits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "serialcomm",
			Name:        "retransmits_total",
			Help:        "Total retransmissions, after a receipt timeout or a CHECKSUM_MISMATCH receipt.",
			ConstLabels: constLabels,
		}),
		drops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "serialcomm",
			Name:        "drops_total",
			Help:        "Total messages dropped, by reason.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		txOccupancy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "serialcomm",
			Name:        "tx_queue_occupancy",
			Help:        "Current number of occupied TX slots.",
			ConstLabels: constLabels,
		}),
		rxOccupancy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "serialcomm",
			Name:        "rx_queue_occupancy",
			Help:        "Current number of occupied RX slots.",
			ConstLabels: constLabels,
		}),
		queueCap: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "serialcomm",
			Name:        "queue_capacity",
			Help:        "Configured TX/RX slot array capacity.",
			ConstLabels: constLabels,
		}),
	}

	registerOnce.Do(func() {
		prometheus.MustRegister(r.transmits, r.receives, r.retransmits, r.drops,
			r.txOccupancy, r.rxOccupancy, r.queueCap)
	})
	return r
}

func (r *Recorder) Transmit(receiptType string) {
	if r == nil {
		return
	}
	r.transmits.WithLabelValues(receiptType).Inc()
}

func (r *Recorder) Receive(checksumOK bool) {
	if r == nil {
		return
	}
	r.receives.WithLabelValues(boolLabel(checksumOK)).Inc()
}

func (r *Recorder) Retransmit() {
	if r == nil {
		return
	}
	r.retransmits.Inc()
}

func (r *Recorder) Drop(reason string) {
	if r == nil {
		return
	}
	r.drops.WithLabelValues(reason).Inc()
}

func (r *Recorder) SetTXOccupancy(n int) {
	if r == nil {
		return
	}
	r.txOccupancy.Set(float64(n))
}

func (r *Recorder) SetRXOccupancy(n int) {
	if r == nil {
		return
	}
	r.rxOccupancy.Set(float64(n))
}

func (r *Recorder) SetQueueCapacity(n uint16) {
	if r == nil {
		return
	}
	r.queueCap.Set(float64(n))
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
