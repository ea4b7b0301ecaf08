// Package cmd provides Cobra CLI commands for nvprime.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/nvprime/internal/cli"
	"github.com/bnema/nvprime/internal/domain/build"
	"github.com/bnema/nvprime/internal/infrastructure/config"
)

// skipAppAnnotation marks commands that run without loading configuration.
const skipAppAnnotation = "nvprime/skip-app"

var (
	app         *cli.App
	buildInfo   build.Info
	configFile  string
	backendKind string
	rootCmd     = &cobra.Command{
		Use:   "nvprime",
		Short: "PRIME surface export for NVIDIA hardware decoders",
		Long: `nvprime - export NVIDIA decoder surfaces as DRM PRIME buffers.

nvprime allocates GPU-side backing stores for decoded pictures, copies
frames into them and describes them as multi-planar dma-buf exports that
a display stack can import.

The commands below inspect the devices the exporter would correlate and
run the whole surface lifecycle against a backend.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "__complete":
				return nil
			}
			if cmd.Annotations[skipAppAnnotation] == "true" {
				return nil
			}

			var err error
			app, err = cli.NewApp(cmd.Context(), configFile)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo

			if backendKind != "" {
				app.Config.Backend.Kind = config.BackendKind(backendKind)
				if app.Config.Backend.Kind != config.BackendCUDA && app.Config.Backend.Kind != config.BackendHost {
					return fmt.Errorf("--backend must be %q or %q", config.BackendCUDA, config.BackendHost)
				}
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/nvprime/config.toml)")
	rootCmd.PersistentFlags().StringVar(&backendKind, "backend", "", "override backend.kind (cuda or host)")
}

// Execute runs the root command.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
