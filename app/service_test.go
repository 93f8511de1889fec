package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/bikecast/config"
	"github.com/kilianp07/bikecast/core/factory"
	"github.com/kilianp07/bikecast/core/generator"
	"github.com/kilianp07/bikecast/core/quality"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Path = filepath.Join(t.TempDir(), "data", "raw", "sample_bike_weather.csv")
	return &cfg
}

func newTestService(t *testing.T, cfg *config.Config) *Service {
	t.Helper()
	svc, err := New(cfg)
	require.NoError(t, err)
	svc.newRunID = func() string { return "run-test" }
	svc.now = func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestGenerateWritesDataset(t *testing.T) {
	cfg := testConfig(t)
	res, err := newTestService(t, cfg).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-test", res.Batch.RunID)
	assert.Equal(t, "csv", res.Format)
	assert.Len(t, res.Batch.Rows, 90)

	rows, err := LoadDataset(cfg.Output.Path)
	require.NoError(t, err)
	assert.Equal(t, res.Batch.Rows, rows)
	assert.Empty(t, quality.Check(rows, quality.Options{}))
}

func TestGenerateIsReproducible(t *testing.T) {
	a := testConfig(t)
	b := testConfig(t)
	_, err := newTestService(t, a).Generate(context.Background())
	require.NoError(t, err)
	_, err = newTestService(t, b).Generate(context.Background())
	require.NoError(t, err)

	da, err := os.ReadFile(a.Output.Path)
	require.NoError(t, err)
	db, err := os.ReadFile(b.Output.Path)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestGenerateBadDateWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Generator.StartDate = "15/01/2024"
	_, err := newTestService(t, cfg).Generate(context.Background())
	assert.ErrorIs(t, err, generator.ErrInvalidStartDate)
	_, statErr := os.Stat(filepath.Dir(cfg.Output.Path))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateExtraSinksAndMetrics(t *testing.T) {
	cfg := testConfig(t)
	dir := filepath.Dir(filepath.Dir(cfg.Output.Path))
	cfg.Sinks = []factory.ModuleConfig{
		{Type: "jsonl", Conf: map[string]any{"path": filepath.Join(dir, "copy.jsonl")}},
		{Type: "sqlite", Conf: map[string]any{"path": filepath.Join(dir, "db", "bikes.db")}},
	}
	cfg.Metrics.Textfile = filepath.Join(dir, "bikecast.prom")

	svc := newTestService(t, cfg)
	_, err := svc.Generate(context.Background())
	require.NoError(t, err)

	rows, err := LoadDataset(filepath.Join(dir, "copy.jsonl"))
	require.NoError(t, err)
	assert.Len(t, rows, 90)

	prom, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `bikecast_rows_generated_total{station_id="AMS-001"} 45`)
	n, err := testutil.GatherAndCount(svc.Gatherer(), "bikecast_rows_generated_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGenerateSinkFailureCounted(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sinks = []factory.ModuleConfig{{Type: "unknown"}}
	_, err := newTestService(t, cfg).Generate(context.Background())
	assert.Error(t, err)

	cfg = testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.Sinks = []factory.ModuleConfig{{Type: "csv", Conf: map[string]any{"path": filepath.Join(blocker, "nested.csv")}}}
	svc := newTestService(t, cfg)
	_, err = svc.Generate(context.Background())
	require.Error(t, err)
	n, err := testutil.GatherAndCount(svc.Gatherer(), "bikecast_sink_errors_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
