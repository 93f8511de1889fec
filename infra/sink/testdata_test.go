package sink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/bikecast/core/generator"
	coresink "github.com/kilianp07/bikecast/core/sink"
)

func testBatch(t *testing.T) coresink.Batch {
	t.Helper()
	p := generator.Params{Stations: 3, Days: 2, StartDate: "2024-01-15", StartHour: 8, EndHour: 9, Seed: 42}
	rows, err := generator.Generate(p)
	require.NoError(t, err)
	return coresink.Batch{
		RunID:       "run-1",
		Params:      p,
		GeneratedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Rows:        rows,
	}
}
