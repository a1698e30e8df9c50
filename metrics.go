package mdadm

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/mdadm/jbod"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package
// metric provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordMount is called after each Mount (mounted=true) or Unmount
	// (mounted=false). err is nil if successful.
	RecordMount(mounted bool, err error)

	// RecordRead is called after each read with the requested length and
	// the total time taken.
	RecordRead(length uint32, duration time.Duration, err error)

	// RecordWrite is called after each write.
	RecordWrite(length uint32, duration time.Duration, err error)

	// RecordCacheLookup is called for every block fetch consulted against the cache.
	RecordCacheLookup(hit bool)

	// RecordDeviceOp is called after every command issued to the device.
	RecordDeviceOp(cmd jbod.Command, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordMount(bool, error)                  {}
func (NoopMetricsCollector) RecordRead(uint32, time.Duration, error)  {}
func (NoopMetricsCollector) RecordWrite(uint32, time.Duration, error) {}
func (NoopMetricsCollector) RecordCacheLookup(bool)                   {}
func (NoopMetricsCollector) RecordDeviceOp(jbod.Command, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	MountCount      atomic.Int64
	UnmountCount    atomic.Int64
	MountErrors     atomic.Int64
	ReadCount       atomic.Int64
	ReadBytes       atomic.Int64
	ReadErrors      atomic.Int64
	ReadTotalNanos  atomic.Int64
	WriteCount      atomic.Int64
	WriteBytes      atomic.Int64
	WriteErrors     atomic.Int64
	WriteTotalNanos atomic.Int64
	CacheLookups    atomic.Int64
	CacheHits       atomic.Int64
	DeviceOps       atomic.Int64
	DeviceErrors    atomic.Int64
}

// RecordMount implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMount(mounted bool, err error) {
	if mounted {
		b.MountCount.Add(1)
	} else {
		b.UnmountCount.Add(1)
	}
	if err != nil {
		b.MountErrors.Add(1)
	}
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(length uint32, duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
		return
	}
	b.ReadBytes.Add(int64(length))
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(length uint32, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
		return
	}
	b.WriteBytes.Add(int64(length))
}

// RecordCacheLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCacheLookup(hit bool) {
	b.CacheLookups.Add(1)
	if hit {
		b.CacheHits.Add(1)
	}
}

// RecordDeviceOp implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDeviceOp(_ jbod.Command, err error) {
	b.DeviceOps.Add(1)
	if err != nil {
		b.DeviceErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		MountCount:    b.MountCount.Load(),
		UnmountCount:  b.UnmountCount.Load(),
		MountErrors:   b.MountErrors.Load(),
		ReadCount:     b.ReadCount.Load(),
		ReadBytes:     b.ReadBytes.Load(),
		ReadErrors:    b.ReadErrors.Load(),
		ReadAvgNanos:  avg(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
		WriteCount:    b.WriteCount.Load(),
		WriteBytes:    b.WriteBytes.Load(),
		WriteErrors:   b.WriteErrors.Load(),
		WriteAvgNanos: avg(b.WriteTotalNanos.Load(), b.WriteCount.Load()),
		CacheLookups:  b.CacheLookups.Load(),
		CacheHits:     b.CacheHits.Load(),
		DeviceOps:     b.DeviceOps.Load(),
		DeviceErrors:  b.DeviceErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	MountCount    int64
	UnmountCount  int64
	MountErrors   int64
	ReadCount     int64
	ReadBytes     int64
	ReadErrors    int64
	ReadAvgNanos  int64
	WriteCount    int64
	WriteBytes    int64
	WriteErrors   int64
	WriteAvgNanos int64
	CacheLookups  int64
	CacheHits     int64
	DeviceOps     int64
	DeviceErrors  int64
}
