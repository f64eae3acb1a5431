package commands

import (
	"github.com/spf13/cobra"

	"github.com/rflogs/rflogs-cli/internal/transfer"
)

// NewDownloadCommand creates the download command.
func NewDownloadCommand(userAgent string) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "download <run-id>",
		Short: "Download test results from rflogs.io",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd, userAgent)
			if err != nil {
				return err
			}

			downloader := transfer.NewDownloader(cmdCtx.Client, cmdCtx.Renderer, cmdCtx.Logger)
			return downloader.Download(cmd.Context(), args[0], outputDir)
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "Directory to save downloaded files")
	return cmd
}
