// Package metrics exports scan results in the Prometheus text format, suitable
// for the node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/idelchi/diskstat/internal/diskstat"
	"github.com/idelchi/diskstat/internal/volume"
)

const (
	namespace = "diskstat"

	// LabelNameRoot identifies the scanned directory.
	LabelNameRoot = "root"
	// LabelNameExtension identifies a file extension bucket.
	LabelNameExtension = "extension"
)

// ScanMetric holds the gauges describing one scan.
type ScanMetric struct {
	registry       *prometheus.Registry
	totalBytes     prometheus.Gauge
	files          prometheus.Gauge
	directories    prometheus.Gauge
	errors         prometheus.Gauge
	duration       prometheus.Gauge
	extensionBytes *prometheus.GaugeVec
	volumeCapacity prometheus.Gauge
	volumeFree     prometheus.Gauge
	hasVolume      bool
}

// NewScan creates the gauges for root on a private registry.
func NewScan(root string) *ScanMetric {
	presetLabels := map[string]string{LabelNameRoot: root}

	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        name,
			Help:        help,
			ConstLabels: presetLabels,
		})
	}

	m := &ScanMetric{
		registry:    prometheus.NewRegistry(),
		totalBytes:  gauge("total_bytes", "Cumulative size of all regular files below the root."),
		files:       gauge("files", "Number of regular files counted."),
		directories: gauge("directories", "Number of directories in the scanned tree, including the root."),
		errors:      gauge("errors", "Number of entries that could not be read."),
		duration:    gauge("scan_duration_seconds", "Wall-clock duration of the scan."),
		extensionBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "extension_bytes",
			Help:        "Cumulative size of files per extension.",
			ConstLabels: presetLabels,
		}, []string{LabelNameExtension}),
		volumeCapacity: gauge("volume_capacity_bytes", "Capacity of the volume holding the root."),
		volumeFree:     gauge("volume_free_bytes", "Free space of the volume holding the root."),
	}

	m.registry.MustRegister(m.totalBytes, m.files, m.directories, m.errors, m.duration, m.extensionBytes)

	return m
}

// Observe sets the gauges from a scan result and optional volume information.
func (m *ScanMetric) Observe(result *diskstat.ScanResult, info *volume.Info) {
	m.totalBytes.Set(float64(result.TotalSize))
	m.files.Set(float64(result.FileCount))
	m.directories.Set(float64(result.DirCount))
	m.errors.Set(float64(len(result.Errors)))
	m.duration.Set(result.Elapsed.Seconds())

	for ext, size := range result.Extensions {
		m.extensionBytes.WithLabelValues(ext).Set(float64(size))
	}

	if info == nil {
		return
	}

	if !m.hasVolume {
		m.registry.MustRegister(m.volumeCapacity, m.volumeFree)
		m.hasVolume = true
	}

	m.volumeCapacity.Set(float64(info.Total))
	m.volumeFree.Set(float64(info.Free))
}

// Gatherer exposes the underlying registry.
func (m *ScanMetric) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteFile atomically writes all gauges to filename in the text format.
func (m *ScanMetric) WriteFile(filename string) error {
	if err := prometheus.WriteToTextfile(filename, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %q: %w", filename, err)
	}

	return nil
}
