package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rflogs/rflogs-cli/internal/api"
	"github.com/rflogs/rflogs-cli/internal/cli/output"
)

// NewInfoCommand creates the info command.
func NewInfoCommand(userAgent string) *cobra.Command {
	return &cobra.Command{
		Use:   "info <run-id>",
		Short: "Get run information from rflogs.io",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd, userAgent)
			if err != nil {
				return err
			}

			info, err := cmdCtx.Client.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				enc := json.NewEncoder(r.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}

			renderRunInfo(r, info)
			return nil
		},
	}
}

func renderRunInfo(r *output.Renderer, info *api.RunInfo) {
	r.KeyValue("Run ID", info.RunID)
	r.KeyValue("Verdict", renderVerdict(r, info.Verdict))
	r.KeyValue("Tests", fmt.Sprintf("%d total, %d passed, %d failed, %d skipped",
		info.TotalTests, info.Passed, info.Failed, info.Skipped))
	if started, err := time.Parse(time.RFC3339, info.StartTime); err == nil {
		r.KeyValue("Started", fmt.Sprintf("%s (%s)",
			started.Format("2006-01-02 15:04:05 MST"), humanize.Time(started)))
	}
	if len(info.Tags) > 0 {
		r.KeyValue("Tags", strings.Join(info.Tags, ", "))
	}
	r.KeyValue("Files", fmt.Sprintf("%d", len(info.Files)))

	if len(info.Files) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Size", "ID"})
	for _, f := range info.Files {
		t.AppendRow(table.Row{f.Name, output.FormatSize(f.Size), f.ID})
	}
	t.Render()
}

func renderVerdict(r *output.Renderer, verdict string) string {
	switch verdict {
	case "pass":
		return r.Styles().Success.Render(verdict)
	case "fail":
		return r.Styles().Failure.Render(verdict)
	default:
		return verdict
	}
}
