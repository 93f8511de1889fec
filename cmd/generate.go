package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/bikecast/app"
	"github.com/kilianp07/bikecast/config"
	"github.com/kilianp07/bikecast/core/summary"
)

var generateFlags struct {
	output    string
	format    string
	stations  int
	days      int
	startDate string
	startHour int
	endHour   int
	seed      int64
	quiet     bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic bike availability and weather dataset",
	Example: `  bikecast generate
  bikecast generate --output data/raw/custom_sample.csv
  bikecast generate --stations 5 --days 7`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	d := config.DefaultGenerator()
	f := generateCmd.Flags()
	f.StringVarP(&generateFlags.output, "output", "o", config.DefaultOutputPath, "output file path")
	f.StringVar(&generateFlags.format, "format", "", "output format: csv, jsonl or xlsx (default from extension)")
	f.IntVar(&generateFlags.stations, "stations", d.Stations, "number of stations (1-5)")
	f.IntVar(&generateFlags.days, "days", d.Days, "number of days")
	f.StringVar(&generateFlags.startDate, "start-date", d.StartDate, "start date in YYYY-MM-DD format")
	f.IntVar(&generateFlags.startHour, "start-hour", d.StartHour, "first hour of day")
	f.IntVar(&generateFlags.endHour, "end-hour", d.EndHour, "last hour of day")
	f.Int64Var(&generateFlags.seed, "seed", d.Seed, "random seed for reproducibility")
	f.BoolVarP(&generateFlags.quiet, "quiet", "q", false, "skip the dataset summary")
	rootCmd.AddCommand(generateCmd)
}

// applyGenerateFlags overrides configuration values with flags that were set
// explicitly on the command line.
func applyGenerateFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("output") {
		c.Output.Path = generateFlags.output
	}
	if f.Changed("format") {
		c.Output.Format = generateFlags.format
	}
	if f.Changed("stations") {
		c.Generator.Stations = generateFlags.stations
	}
	if f.Changed("days") {
		c.Generator.Days = generateFlags.days
	}
	if f.Changed("start-date") {
		c.Generator.StartDate = generateFlags.startDate
	}
	if f.Changed("start-hour") {
		c.Generator.StartHour = generateFlags.startHour
	}
	if f.Changed("end-hour") {
		c.Generator.EndHour = generateFlags.endHour
	}
	if f.Changed("seed") {
		c.Generator.Seed = generateFlags.seed
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := *cfg
	applyGenerateFlags(cmd, &c)
	out := cmd.OutOrStdout()

	// Out of range parameters are reported and the command ends cleanly
	// without writing anything.
	if err := c.Generator.Validate(); err != nil {
		var rerr *config.RangeError
		if errors.As(err, &rerr) {
			_, perr := fmt.Fprintf(out, "Error: %s\n", rerr)
			return perr
		}
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}

	g := c.Generator
	if _, err := fmt.Fprintf(out, "Generating synthetic bike availability data...\n   Stations: %d\n   Days: %d\n   Start date: %s\n   Hours: %d:00 - %d:00\n\n",
		g.Stations, g.Days, g.StartDate, g.StartHour, g.EndHour); err != nil {
		return err
	}

	svc, err := app.New(&c)
	if err != nil {
		return err
	}
	res, err := svc.Generate(ctx)
	if err != nil {
		return err
	}
	return printResult(out, res, generateFlags.quiet)
}

func printResult(w io.Writer, res *app.Result, quiet bool) error {
	if _, err := fmt.Fprintf(w, "Data generated successfully!\nSaved to: %s\nRun: %s\n", res.OutputPath, res.Batch.RunID); err != nil {
		return err
	}
	if quiet {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return summary.Report(w, res.Batch.Rows, 5)
}
