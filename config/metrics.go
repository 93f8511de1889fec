package config

// MetricsConfig configures run metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus text exposition of the run
	// metrics, suitable for the node_exporter textfile collector.
	Textfile string `json:"textfile"`
}
