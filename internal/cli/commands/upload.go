package commands

import (
	"github.com/spf13/cobra"

	"github.com/rflogs/rflogs-cli/internal/transfer"
	"github.com/rflogs/rflogs-cli/pkg/robot"
)

// NewUploadCommand creates the upload command.
func NewUploadCommand(userAgent string) *cobra.Command {
	var (
		tags    []string
		results string
		log     string
		report  string
	)

	cmd := &cobra.Command{
		Use:   "upload [directory]",
		Short: "Upload test results to rflogs.io",
		Long: `Upload Robot Framework test results from a directory.

The results XML is parsed for run statistics and for secondary artifacts
(screenshots, videos) referenced from log messages; everything found is
uploaded together with the log and report. Each of the three well-known
files can be renamed, or disabled entirely with ` + robot.DisableSentinel + `.`,
		Example: `  # Upload the current directory, tagging the run
  rflogs upload -t env:windows -t regression

  # Upload a specific directory without the report
  rflogs upload -r NONE results/`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			directory := "."
			if len(args) > 0 {
				directory = args[0]
			}

			cmdCtx, err := NewCommandContext(cmd, userAgent)
			if err != nil {
				return err
			}

			uploader := transfer.NewUploader(cmdCtx.Client, cmdCtx.Renderer, cmdCtx.Logger)
			_, err = uploader.Upload(cmd.Context(), transfer.UploadOptions{
				Directory: directory,
				Results:   results,
				Log:       log,
				Report:    report,
				Tags:      append(cmdCtx.Cfg.Tags, tags...),
			})
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil,
		"Tag(s) to associate with the run, e.g., -t env:windows -t regression")
	cmd.Flags().StringVarP(&results, "output", "o", "output.xml",
		"XML output file. Use "+robot.DisableSentinel+" to disable upload")
	cmd.Flags().StringVarP(&log, "log", "l", "log.html",
		"HTML log file. Use "+robot.DisableSentinel+" to disable upload")
	cmd.Flags().StringVarP(&report, "report", "r", "report.html",
		"HTML report file. Use "+robot.DisableSentinel+" to disable upload")

	return cmd
}
