// Package metrics exposes Prometheus instrumentation for channel, codec and copy traffic.
package metrics

import (
	"errors"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for niokit.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Channel metrics
	channelBytesTotal      *prometheus.CounterVec
	channelOperationsTotal *prometheus.CounterVec
	mappingsActive         prometheus.Gauge

	// Codec metrics
	codecOperationsTotal *prometheus.CounterVec

	// Copy metrics
	copyDuration *prometheus.HistogramVec
	copyBytes    *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics with reg.
// A nil reg registers with the default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		channelBytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "niokit_channel_bytes_total",
				Help: "Total number of bytes moved through channels",
			},
			[]string{"op"},
		),

		channelOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "niokit_channel_operations_total",
				Help: "Total number of channel operations",
			},
			[]string{"op", "status"},
		),

		mappingsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "niokit_mappings_active",
				Help: "Number of memory mappings currently open",
			},
		),

		codecOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "niokit_codec_operations_total",
				Help: "Total number of encode and decode operations",
			},
			[]string{"op", "charset", "status"},
		),

		copyDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "niokit_copy_duration_seconds",
				Help:    "File copy duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),

		copyBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "niokit_copy_bytes_total",
				Help: "Total number of bytes copied between files",
			},
			[]string{"method"},
		),
	}
}

// RecordChannel records a channel operation that moved n bytes.
// io.EOF counts as success.
func (m *Metrics) RecordChannel(op string, n int64, err error) {
	if m == nil {
		return
	}
	if n > 0 {
		m.channelBytesTotal.WithLabelValues(op).Add(float64(n))
	}
	m.channelOperationsTotal.WithLabelValues(op, status(err)).Inc()
}

// MappingOpened increments the active mapping gauge
func (m *Metrics) MappingOpened() {
	if m == nil {
		return
	}
	m.mappingsActive.Inc()
}

// MappingClosed decrements the active mapping gauge
func (m *Metrics) MappingClosed() {
	if m == nil {
		return
	}
	m.mappingsActive.Dec()
}

// RecordCodec records an encode or decode call
func (m *Metrics) RecordCodec(op, charset string, err error) {
	if m == nil {
		return
	}
	m.codecOperationsTotal.WithLabelValues(op, charset, status(err)).Inc()
}

// RecordCopy records a completed file copy
func (m *Metrics) RecordCopy(method string, n int64, d time.Duration) {
	if m == nil {
		return
	}
	m.copyDuration.WithLabelValues(method).Observe(d.Seconds())
	if n > 0 {
		m.copyBytes.WithLabelValues(method).Add(float64(n))
	}
}

func status(err error) string {
	if err == nil || errors.Is(err, io.EOF) {
		return statusSuccess
	}
	return statusError
}
