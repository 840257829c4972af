// launchdash serves the SpaceX launch records dashboard and renders its
// charts from the command line.
//
// Usage:
//
//	launchdash                                 serve spacex_launch_dash.csv on :8050
//	launchdash serve --data launches.xlsx --listen :9000
//	launchdash chart scatter --site "KSC LC-39A" --low 2000 --high 8000 --format png -o scatter.png
//	launchdash describe --markdown
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/spektr-org/launchdash/config"
	"github.com/spektr-org/launchdash/dashboard"
	"github.com/spektr-org/launchdash/engine"
	"github.com/spektr-org/launchdash/helpers"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	config    string
	data      string
	sheet     string
	verbosity int
}

var rootCmd = &cobra.Command{
	Use:   "launchdash",
	Short: "SpaceX launch records dashboard",
	Long: `launchdash loads a launch records dataset (CSV, TSV or XLSX) and serves an
interactive dashboard: a launch site selector drives a success pie chart, and
a payload range selector drives a payload vs. outcome scatter chart.

Run without a subcommand to serve the dashboard with the default settings.`,
	Args:          cobra.NoArgs,
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and exit",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "launchdash %s\n", version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.config, "config", "", "Path to a YAML config file")
	pf.StringVar(&rootFlags.data, "data", "", "Launch dataset path (default from config, spacex_launch_dash.csv)")
	pf.StringVar(&rootFlags.sheet, "sheet", "", "Worksheet to read from an .xlsx dataset (default first sheet)")
	pf.CountVarP(&rootFlags.verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	addServeFlags(rootCmd)
	rootCmd.AddCommand(serveCmd, chartCmd, describeCmd, versionCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// ============================================================================
// SHARED SETUP
// ============================================================================

// loadConfig reads --config and applies the persistent flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(rootFlags.config)
	if err != nil {
		return cfg, err
	}
	if rootFlags.data != "" {
		cfg.Dataset.Path = rootFlags.data
	}
	if rootFlags.sheet != "" {
		cfg.Dataset.Sheet = rootFlags.sheet
	}
	if rootFlags.verbosity > cfg.Log.Verbosity {
		cfg.Log.Verbosity = rootFlags.verbosity
	}
	return cfg, cfg.Validate()
}

func loadDataset(cfg config.Config, log logr.Logger) (*helpers.Dataset, error) {
	return helpers.LoadFile(helpers.Source{
		Path:    cfg.Dataset.Path,
		Sheet:   cfg.Dataset.Sheet,
		Columns: cfg.Columns(),
	}, log.WithName("loader"))
}

func engineOptions(cfg config.Config) []engine.Option {
	return []engine.Option{engine.WithSiteOrder(cfg.Charts.SiteOrder)}
}

func controlOptions(cfg config.Config, t *engine.LaunchTable) dashboard.Options {
	return dashboard.NewOptions(t, cfg.Sites, dashboard.Slider{
		Min:  cfg.Slider.Min,
		Max:  cfg.Slider.Max,
		Step: cfg.Slider.Step,
	})
}

// setup loads config, logger and dataset for a command.
func setup() (config.Config, logr.Logger, func(), *helpers.Dataset, error) {
	noop := func() {}
	cfg, err := loadConfig()
	if err != nil {
		return cfg, logr.Discard(), noop, nil, err
	}
	log, flush, err := newLogger(cfg.Log)
	if err != nil {
		return cfg, logr.Discard(), noop, nil, fmt.Errorf("init logger: %w", err)
	}
	ds, err := loadDataset(cfg, log)
	if err != nil {
		return cfg, log, flush, nil, err
	}
	return cfg, log, flush, ds, nil
}
