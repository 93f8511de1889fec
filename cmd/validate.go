package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/bikecast/app"
	"github.com/kilianp07/bikecast/core/generator"
	"github.com/kilianp07/bikecast/core/model"
	"github.com/kilianp07/bikecast/core/quality"
	coresink "github.com/kilianp07/bikecast/core/sink"
	"github.com/kilianp07/bikecast/infra/sink"
)

var validateFlags struct {
	startDate string
	repair    string
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a dataset against the generator invariants",
	Long: `Check a dataset against the generator invariants.

With --repair, duplicate (timestamp, station) rows are dropped, the rows are
put back in timestamp then station order and the result is written to the
given path. The command fails when violations remain after the repair.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateFlags.startDate, "start-date", "", "first generated day (default: earliest date in the file)")
	validateCmd.Flags().StringVar(&validateFlags.repair, "repair", "", "write a deduplicated and sorted copy to this path")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	var opts quality.Options
	if validateFlags.startDate != "" {
		t, err := time.Parse(generator.DateLayout, validateFlags.startDate)
		if err != nil {
			return fmt.Errorf("start date: %w", err)
		}
		opts.StartDate = t
	}
	rows, err := app.LoadDataset(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	violations := quality.Check(rows, opts)
	if err := printViolations(out, violations); err != nil {
		return err
	}

	if validateFlags.repair != "" {
		rows = quality.Deduplicate(rows)
		generator.SortObservations(rows)
		if err := writeRepaired(cmd, validateFlags.repair, rows); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "Repaired dataset saved to %s (%d rows)\n", validateFlags.repair, len(rows)); err != nil {
			return err
		}
		violations = quality.Check(rows, opts)
	}

	if len(violations) > 0 {
		return fmt.Errorf("%s: %d violations in %d rows", args[0], len(violations), len(rows))
	}
	_, err = fmt.Fprintf(out, "%s: %d rows, no violations\n", args[0], len(rows))
	return err
}

func printViolations(w io.Writer, violations []quality.Violation) error {
	for _, v := range violations {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}

func writeRepaired(cmd *cobra.Command, path string, rows []model.Observation) error {
	fs, err := sink.NewFileSink(path, "")
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()
	return fs.WriteBatch(cmd.Context(), coresink.Batch{Rows: rows, GeneratedAt: time.Now()})
}
