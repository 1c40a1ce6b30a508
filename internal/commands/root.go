package commands

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/kvd/internal/app"
	"github.com/dotcommander/kvd/internal/output"
)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	root := &cobra.Command{
		Use:           "kvd",
		Short:         "In-memory key-value store with per-key TTL expiration",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return output.PrintSuccess(resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.EnsureConfigDir(); err != nil {
				return err
			}

			// Wire --addr into the app-level resolver.
			if addr, err := cmd.Flags().GetString("addr"); err == nil && addr != "" {
				app.SetAddrOverride(addr)
			}

			return nil
		},
	}

	root.PersistentFlags().String("addr", "", "Server address (default: $KVD_ADDR or config listen_addr)")
	root.Flags().BoolP("version", "v", false, "version for kvd")

	root.AddCommand(NewServeCmd())
	root.AddCommand(NewPingCmd())
	root.AddCommand(NewGetCmd())
	root.AddCommand(NewSetCmd())
	root.AddCommand(NewDeleteCmd())
	root.AddCommand(NewIncrCmd())
	root.AddCommand(NewDecrCmd())
	root.AddCommand(NewTTLCmd())
	root.AddCommand(NewExpireCmd())

	err := root.Execute()
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			slog.Error("command failed", "error", err.Error())
		}
	}
	return err
}
