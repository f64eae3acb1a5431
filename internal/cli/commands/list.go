package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/rflogs/rflogs-cli/internal/cli/output"
)

// NewListCommand creates the list command.
func NewListCommand(userAgent string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available runs on rflogs.io",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd, userAgent)
			if err != nil {
				return err
			}

			runs, err := cmdCtx.Client.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			r := cmdCtx.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				enc := json.NewEncoder(r.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string][]string{"runs": runs})
			}

			r.Println("Available runs:")
			for _, id := range runs {
				r.Println("  " + id)
			}
			return nil
		},
	}
}
