// Package cli provides the command-line interface for the RF Logs client.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rflogs/rflogs-cli/internal/cli/commands"
	"github.com/rflogs/rflogs-cli/internal/cli/config"
	"github.com/rflogs/rflogs-cli/internal/cli/output"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rflogs",
		Short: "RF Logs CLI - manage Robot Framework test results on rflogs.io",
		Long: `rflogs collects Robot Framework test-result artifacts from a local
directory, enriches them with run metadata parsed from output.xml, and
synchronizes them with the RF Logs service: upload, list, info, download
and delete.

Authentication uses the RFLOGS_API_KEY environment variable or the api_key
setting in rflogs.yaml.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))

			mode, err := output.ParseMode(cfg.Format)
			if err != nil {
				return err
			}
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			ctx := commands.WithConfig(cmd.Context(), cfg)
			ctx = commands.WithLogger(ctx, logger)
			ctx = commands.WithRenderer(ctx, renderer)
			cmd.SetContext(ctx)

			if cfg.Verbose && cfg.ConfigFile != "" {
				logger.Debug("using config file", "path", cfg.ConfigFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./rflogs.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "RF Logs service URL (default: "+config.DefaultBaseURL+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("format", "", "Output format (auto|text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	ua := fmt.Sprintf("rflogs-cli/%s", Version)
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewUploadCommand(ua))
	rootCmd.AddCommand(commands.NewListCommand(ua))
	rootCmd.AddCommand(commands.NewInfoCommand(ua))
	rootCmd.AddCommand(commands.NewDownloadCommand(ua))
	rootCmd.AddCommand(commands.NewDeleteCommand(ua))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	rootCmd.SetContext(context.Background())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
