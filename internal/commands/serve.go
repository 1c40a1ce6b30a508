package commands

import (
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/kvd/internal/app"
	"github.com/dotcommander/kvd/internal/dispatch"
	"github.com/dotcommander/kvd/internal/server"
	"github.com/dotcommander/kvd/internal/store"
)

// NewServeCmd creates the serve command: the daemon itself.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the kvd daemon",
		Long:  "Listen for line-delimited JSON commands and serve the in-memory store until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.EffectiveServerSettings()
			if reap, err := cmd.Flags().GetInt("reap-interval"); err == nil && reap > 0 {
				cfg.ReapIntervalSeconds = reap
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			engine := store.New()
			dispatcher := dispatch.New(engine)
			reaper := store.NewReaper(engine, time.Duration(cfg.ReapIntervalSeconds)*time.Second)
			go reaper.Run(ctx)

			slog.Info("starting kvd",
				"addr", cfg.ListenAddr,
				"reap_interval_seconds", cfg.ReapIntervalSeconds,
			)
			return server.New(cfg.ListenAddr, dispatcher).ListenAndServe(ctx)
		},
	}

	cmd.Flags().Int("reap-interval", 0, "Seconds between reaper sweeps (default: config reap_interval_seconds or 1)")

	return cmd
}
