// Package metric exports controller metrics to Prometheus.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/mdadm"
	"github.com/hupe1980/mdadm/jbod"
)

const namespace = "mdadm"

// PrometheusCollector implements mdadm.MetricsCollector on client_golang
// counters and histograms.
type PrometheusCollector struct {
	opLatency    *prometheus.HistogramVec
	bytes        *prometheus.CounterVec
	mounts       *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	deviceOps    *prometheus.CounterVec
}

var _ mdadm.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates the collector and registers its metrics with
// reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of controller reads and writes",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op", "status"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transferred_bytes_total",
			Help:      "Bytes moved by successful reads and writes",
		}, []string{"op"}),
		mounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mount_operations_total",
			Help:      "Mount and unmount calls",
		}, []string{"op", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Block cache lookups by result",
		}, []string{"result"}),
		deviceOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_commands_total",
			Help:      "Commands issued to the JBOD device",
		}, []string{"command", "status"}),
	}

	reg.MustRegister(p.opLatency, p.bytes, p.mounts, p.cacheLookups, p.deviceOps)
	return p
}

// RecordMount implements mdadm.MetricsCollector.
func (p *PrometheusCollector) RecordMount(mounted bool, err error) {
	op := "unmount"
	if mounted {
		op = "mount"
	}
	p.mounts.WithLabelValues(op, status(err)).Inc()
}

// RecordRead implements mdadm.MetricsCollector.
func (p *PrometheusCollector) RecordRead(length uint32, d time.Duration, err error) {
	p.recordTransfer("read", length, d, err)
}

// RecordWrite implements mdadm.MetricsCollector.
func (p *PrometheusCollector) RecordWrite(length uint32, d time.Duration, err error) {
	p.recordTransfer("write", length, d, err)
}

func (p *PrometheusCollector) recordTransfer(op string, length uint32, d time.Duration, err error) {
	p.opLatency.WithLabelValues(op, status(err)).Observe(d.Seconds())
	if err == nil {
		p.bytes.WithLabelValues(op).Add(float64(length))
	}
}

// RecordCacheLookup implements mdadm.MetricsCollector.
func (p *PrometheusCollector) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(result).Inc()
}

// RecordDeviceOp implements mdadm.MetricsCollector.
func (p *PrometheusCollector) RecordDeviceOp(cmd jbod.Command, err error) {
	p.deviceOps.WithLabelValues(cmd.String(), status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
