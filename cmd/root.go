package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/bikecast/config"
	"github.com/kilianp07/bikecast/infra/logger"
)

var (
	cfgPath  string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "bikecast",
	Short:        "Synthetic bike availability and weather datasets",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			c.Logging.Level = logLevel
			if err := c.Logging.Validate(); err != nil {
				return err
			}
		}
		if err := logger.Configure(logger.Options{
			Level:      c.Logging.Level,
			Format:     c.Logging.Format,
			Out:        cmd.ErrOrStderr(),
			File:       c.Logging.File,
			MaxSizeMB:  c.Logging.MaxSizeMB,
			MaxBackups: c.Logging.MaxBackups,
			MaxAgeDays: c.Logging.MaxAgeDays,
		}); err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
