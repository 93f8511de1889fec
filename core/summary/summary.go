// Package summary computes the descriptive statistics printed after a run.
package summary

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/bikecast/core/model"
	"github.com/kilianp07/bikecast/pkg/export"
)

// Stats mirrors a describe() table for one numeric column.
type Stats struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Column extracts a numeric column from an observation.
type Column struct {
	Name  string
	Value func(model.Observation) float64
}

// DefaultColumns are the columns summarised after generation.
var DefaultColumns = []Column{
	{"bikes_available", func(o model.Observation) float64 { return float64(o.BikesAvailable) }},
	{"temperature", func(o model.Observation) float64 { return o.Temperature }},
	{"precipitation", func(o model.Observation) float64 { return o.Precipitation }},
	{"windspeed", func(o model.Observation) float64 { return o.Windspeed }},
}

// Describe computes Stats for values. Std is the sample standard deviation
// and is NaN for fewer than two values; every field but Count is NaN for an
// empty input.
func Describe(values []float64) Stats {
	s := Stats{Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	s.Mean = stat.Mean(sorted, nil)
	s.Std = math.NaN()
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	s.Q50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	s.Q75 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	return s
}

// DescribeColumns computes Stats for each column over rows.
func DescribeColumns(rows []model.Observation, cols []Column) []Stats {
	out := make([]Stats, len(cols))
	for i, c := range cols {
		vals := make([]float64, len(rows))
		for j, r := range rows {
			vals[j] = c.Value(r)
		}
		out[i] = Describe(vals)
	}
	return out
}

// Report writes the shape, the first headRows rows and the statistics table.
func Report(w io.Writer, rows []model.Observation, headRows int) error {
	if _, err := fmt.Fprintf(w, "Shape: %d rows x %d columns\n\n", len(rows), len(export.Columns)); err != nil {
		return err
	}
	if err := writeHead(w, rows, headRows); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return writeStats(w, DefaultColumns, DescribeColumns(rows, DefaultColumns))
}

func writeHead(w io.Writer, rows []model.Observation, n int) error {
	if n > len(rows) {
		n = len(rows)
	}
	if _, err := fmt.Fprintf(w, "Sample data (first %d rows):\n", n); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(export.Columns, "\t")); err != nil {
		return err
	}
	for _, r := range rows[:n] {
		if _, err := fmt.Fprintln(tw, strings.Join(export.Record(r), "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeStats(w io.Writer, cols []Column, stats []Stats) error {
	if _, err := fmt.Fprintln(w, "Statistics:"); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := []string{""}
	for _, c := range cols {
		header = append(header, c.Name)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")+"\t"); err != nil {
		return err
	}
	lines := []struct {
		label string
		get   func(Stats) float64
	}{
		{"count", func(s Stats) float64 { return float64(s.Count) }},
		{"mean", func(s Stats) float64 { return s.Mean }},
		{"std", func(s Stats) float64 { return s.Std }},
		{"min", func(s Stats) float64 { return s.Min }},
		{"25%", func(s Stats) float64 { return s.Q25 }},
		{"50%", func(s Stats) float64 { return s.Q50 }},
		{"75%", func(s Stats) float64 { return s.Q75 }},
		{"max", func(s Stats) float64 { return s.Max }},
	}
	for _, l := range lines {
		fields := []string{l.label}
		for _, s := range stats {
			fields = append(fields, fmt.Sprintf("%.6f", l.get(s)))
		}
		if _, err := fmt.Fprintln(tw, strings.Join(fields, "\t")+"\t"); err != nil {
			return err
		}
	}
	return tw.Flush()
}
