package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/projectpilot/internal/api"
	"github.com/nhle/projectpilot/internal/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the project store over HTTP",
	Long: `Start the JSON API on top of a freshly seeded store.

Examples:
  projectpilot serve
  projectpilot serve --addr :9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer e.Close()

	addr := serveAddr
	if addr == "" {
		addr = e.cfg.Server.Addr
	}

	if e.reminders.Enabled() {
		// Digests are logged by the scheduler; nothing reads the channel here.
		e.reminders.Start()
		defer e.reminders.Stop()
	}

	srv := api.NewServer(e.store, logging.ForComponent(e.log, "api"))
	return srv.Run(ctx, addr)
}
