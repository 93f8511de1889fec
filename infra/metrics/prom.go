package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/bikecast/core/model"
)

// RunMetrics records generation runs in Prometheus collectors.
type RunMetrics struct {
	rows       *prometheus.CounterVec
	duration   prometheus.Histogram
	lastRun    prometheus.Gauge
	sinkErrors *prometheus.CounterVec
}

// NewRunMetrics registers run metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewRunMetrics(reg prometheus.Registerer) (*RunMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bikecast_rows_generated_total",
		Help: "Rows generated per station",
	}, []string{"station_id"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bikecast_generation_duration_seconds",
		Help:    "Time spent generating a dataset",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bikecast_last_run_timestamp_seconds",
		Help: "Completion time of the last generation run",
	})
	sinkErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bikecast_sink_errors_total",
		Help: "Errors while writing to a sink",
	}, []string{"sink"})

	if err := reg.Register(rows); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			rows = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(lastRun); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			lastRun = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(sinkErrors); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			sinkErrors = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	return &RunMetrics{rows: rows, duration: duration, lastRun: lastRun, sinkErrors: sinkErrors}, nil
}

// ObserveRun records the rows of a finished run and how long it took.
func (m *RunMetrics) ObserveRun(rows []model.Observation, took time.Duration, at time.Time) {
	for _, r := range rows {
		m.rows.WithLabelValues(r.StationID).Inc()
	}
	m.duration.Observe(took.Seconds())
	m.lastRun.Set(float64(at.Unix()))
}

// SinkError counts a failed sink write.
func (m *RunMetrics) SinkError(sink string) {
	m.sinkErrors.WithLabelValues(sink).Inc()
}

// WriteTextfile writes the registry content in text exposition format,
// for the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
