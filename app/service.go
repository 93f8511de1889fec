package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/bikecast/config"
	"github.com/kilianp07/bikecast/core/generator"
	"github.com/kilianp07/bikecast/core/model"
	coresink "github.com/kilianp07/bikecast/core/sink"
	"github.com/kilianp07/bikecast/infra/logger"
	"github.com/kilianp07/bikecast/infra/metrics"
	"github.com/kilianp07/bikecast/infra/sink"
	"github.com/kilianp07/bikecast/pkg/export"
)

// Service runs dataset generation and delivers the result to the configured
// output file and sinks.
type Service struct {
	cfg      *config.Config
	log      logger.Logger
	registry *prometheus.Registry
	metrics  *metrics.RunMetrics
	newRunID func() string
	now      func() time.Time
}

// Result describes a finished run.
type Result struct {
	Batch      coresink.Batch
	OutputPath string
	Format     string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewRunMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("run metrics: %w", err)
	}
	return &Service{
		cfg:      cfg,
		log:      logger.New("service"),
		registry: reg,
		metrics:  m,
		newRunID: uuid.NewString,
		now:      time.Now,
	}, nil
}

// Generate builds the dataset, writes the output file, forwards the batch
// to the extra sinks and exports run metrics. No file is written when
// generation fails.
func (s *Service) Generate(ctx context.Context) (*Result, error) {
	params := s.cfg.Generator.Params()
	runID := s.newRunID()
	s.log.Debugw("generation started", map[string]any{"run_id": runID, "params": params})

	started := s.now()
	rows, err := generator.Generate(params)
	if err != nil {
		return nil, err
	}
	finished := s.now()
	s.metrics.ObserveRun(rows, finished.Sub(started), finished)
	stations := len(model.Stations(params.Stations))
	if want := params.ExpectedRows(stations); len(rows) != want {
		s.log.Warnf("generated %d rows, expected %d", len(rows), want)
	}
	s.log.Infof("generated %d rows for %d stations (run %s)", len(rows), stations, runID)

	batch := coresink.Batch{RunID: runID, Params: params, GeneratedAt: finished, Rows: rows}
	format := s.cfg.Output.ResolvedFormat()
	out, err := sink.NewFileSink(s.cfg.Output.Path, format)
	if err != nil {
		return nil, err
	}
	entries := []coresink.Entry{{Name: "output", Sink: out}}
	for i, mc := range s.cfg.Sinks {
		sk, err := coresink.Create(mc)
		if err != nil {
			closeEntries(entries)
			return nil, fmt.Errorf("sinks[%d]: %w", i, err)
		}
		entries = append(entries, coresink.Entry{Name: mc.Type, Sink: sk})
	}
	multi := coresink.NewMultiSink(entries...)
	writeErr := multi.WriteBatch(ctx, batch)
	if writeErr != nil {
		var serr *coresink.Error
		if errors.As(writeErr, &serr) {
			s.metrics.SinkError(serr.Name)
		}
		s.log.Errorf("write batch: %v", writeErr)
	}
	if err := multi.Close(); err != nil {
		s.log.Warnf("close sinks: %v", err)
	}
	if err := s.exportMetrics(); err != nil {
		s.log.Warnf("export metrics: %v", err)
	}
	if writeErr != nil {
		return nil, writeErr
	}
	return &Result{Batch: batch, OutputPath: out.Path(), Format: format}, nil
}

// Gatherer exposes the run metrics registry.
func (s *Service) Gatherer() prometheus.Gatherer { return s.registry }

func (s *Service) exportMetrics() error {
	if s.cfg.Metrics.Textfile == "" {
		return nil
	}
	return metrics.WriteTextfile(s.cfg.Metrics.Textfile, s.registry)
}

func closeEntries(entries []coresink.Entry) {
	_ = coresink.NewMultiSink(entries...).Close()
}

// LoadDataset reads a dataset file, inferring the format from its extension.
func LoadDataset(path string) ([]model.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return export.Read(f, export.FormatFromPath(path))
}
