package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the archiver's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Registry         *prometheus.Registry
	RowsTotal        *prometheus.CounterVec
	ImagesSaved      *prometheus.CounterVec
	RowDuration      *prometheus.HistogramVec
	NavigationErrors prometheus.Counter
	DownloadErrors   prometheus.Counter
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	rows := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archiver_rows_total",
			Help: "Processed spreadsheet rows by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)
	images := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archiver_images_saved_total",
			Help: "Images and captures written to disk.",
		},
		[]string{"mode"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "archiver_row_duration_seconds",
			Help:    "Time spent on a single row.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"mode"},
	)
	navigation := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "archiver_navigation_errors_total",
			Help: "Page loads that failed or hit the block page.",
		},
	)
	downloads := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "archiver_download_errors_total",
			Help: "Image downloads that failed.",
		},
	)

	registry.MustRegister(rows, images, duration, navigation, downloads)

	return &Metrics{
		Registry:         registry,
		RowsTotal:        rows,
		ImagesSaved:      images,
		RowDuration:      duration,
		NavigationErrors: navigation,
		DownloadErrors:   downloads,
	}
}

func (m *Metrics) RowProcessed(mode, outcome string, images int, d time.Duration) {
	if m == nil {
		return
	}
	m.RowsTotal.WithLabelValues(mode, outcome).Inc()
	m.RowDuration.WithLabelValues(mode).Observe(d.Seconds())
	if images > 0 {
		m.ImagesSaved.WithLabelValues(mode).Add(float64(images))
	}
}

func (m *Metrics) NavigationError() {
	if m == nil {
		return
	}
	m.NavigationErrors.Inc()
}

func (m *Metrics) DownloadError() {
	if m == nil {
		return
	}
	m.DownloadErrors.Inc()
}
