package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "flicker_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	uploadTotal    *prometheus.CounterVec
	analyzeTotal   *prometheus.CounterVec
	analyzeLatency *prometheus.HistogramVec
	exportTotal    *prometheus.CounterVec
	exportLatency  *prometheus.HistogramVec
	classifyTotal  *prometheus.CounterVec
)

// Init registers service metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		uploadTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "uploads_total",
				Help: "Total waveform uploads by result",
			},
			[]string{"result"},
		)
		analyzeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "analyses_total",
				Help: "Total waveform analyses by result",
			},
			[]string{"result"},
		)
		analyzeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "analyze_duration_seconds",
				Help:    "Waveform analysis latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "exports_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_duration_seconds",
				Help:    "Report export latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		)
		classifyTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "manual_classifications_total",
				Help: "Total manual point classifications by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			uploadTotal,
			analyzeTotal,
			analyzeLatency,
			exportTotal,
			exportLatency,
			classifyTotal,
		)
	})
}

// ObserveUpload counts one upload.
func ObserveUpload(result string) {
	if uploadTotal != nil {
		uploadTotal.WithLabelValues(result).Inc()
	}
}

// ObserveAnalyze counts one analysis and its latency.
func ObserveAnalyze(result string, elapsed time.Duration) {
	if analyzeTotal != nil {
		analyzeTotal.WithLabelValues(result).Inc()
	}
	if analyzeLatency != nil {
		analyzeLatency.WithLabelValues(result).Observe(elapsed.Seconds())
	}
}

// ObserveExport counts one export and its latency.
func ObserveExport(format, result string, elapsed time.Duration) {
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format).Observe(elapsed.Seconds())
	}
}

// ObserveManualClassification counts one manual point classification.
func ObserveManualClassification(result string) {
	if classifyTotal != nil {
		classifyTotal.WithLabelValues(result).Inc()
	}
}
