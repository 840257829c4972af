package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spektr-org/launchdash/server"
)

var serveFlags struct {
	listen string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over HTTP",
	Long: `Loads the launch dataset once and serves the dashboard page, the chart API
and a websocket endpoint that recomputes charts as the controls change.
A dataset that cannot be loaded is fatal.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serveFlags.listen, "listen", "", "Listen address (default from config, :8050)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, flush, ds, err := setup()
	defer flush()
	if err != nil {
		return err
	}
	if serveFlags.listen != "" {
		cfg.Server.Listen = serveFlags.listen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{
		Listen:          cfg.Server.Listen,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		ChartWidth:      cfg.Charts.Width,
		ChartHeight:     cfg.Charts.Height,
	}, ds.Table, controlOptions(cfg, ds.Table), log.WithName("server"), engineOptions(cfg)...)

	return srv.Run(ctx)
}
