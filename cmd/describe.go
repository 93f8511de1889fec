package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/bikecast/app"
	"github.com/kilianp07/bikecast/core/summary"
)

var describeHead int

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Print shape, sample rows and statistics of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := app.LoadDataset(args[0])
		if err != nil {
			return err
		}
		return summary.Report(cmd.OutOrStdout(), rows, describeHead)
	},
}

func init() {
	describeCmd.Flags().IntVar(&describeHead, "head", 5, "number of sample rows")
	rootCmd.AddCommand(describeCmd)
}
