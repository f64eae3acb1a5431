// Package commands implements the rflogs subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rflogs/rflogs-cli/internal/api"
	"github.com/rflogs/rflogs-cli/internal/cli/config"
	"github.com/rflogs/rflogs-cli/internal/cli/output"
)

type configKey struct{}
type loggerKey struct{}
type rendererKey struct{}

// WithConfig stores the loaded config in the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithRenderer stores the renderer in the context.
func WithRenderer(ctx context.Context, r *output.Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Client   *api.Client
}

// NewCommandContext extracts the shared dependencies from the command's
// context and builds the API client. It fails before any network I/O when no
// API key is configured.
func NewCommandContext(cmd *cobra.Command, userAgent string) (*CommandContext, error) {
	cmdCtx := newBareContext(cmd)

	if cmdCtx.Cfg.APIKey == "" {
		return nil, fmt.Errorf("RFLOGS_API_KEY environment variable not set. " +
			"Please set it to your RF Logs API key before running the command")
	}

	client, err := api.NewClient(api.Config{
		BaseURL:   cmdCtx.Cfg.BaseURL,
		APIKey:    cmdCtx.Cfg.APIKey,
		Logger:    cmdCtx.Logger,
		UserAgent: userAgent,
	})
	if err != nil {
		return nil, err
	}
	cmdCtx.Client = client
	return cmdCtx, nil
}

// newBareContext builds a CommandContext without an API client, falling back
// to defaults when the root command's PersistentPreRunE did not run.
func newBareContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()

	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		cfg = &config.Config{BaseURL: config.DefaultBaseURL, Format: config.DefaultFormat}
	}
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r, ok := ctx.Value(rendererKey{}).(*output.Renderer)
	if !ok {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto)
	}

	return &CommandContext{Cfg: cfg, Logger: logger, Renderer: r}
}
