package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rflogs/rflogs-cli/internal/api"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(userAgent string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a specific run from rflogs.io",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd, userAgent)
			if err != nil {
				return err
			}

			runID := args[0]
			if err := cmdCtx.Client.DeleteRun(cmd.Context(), runID); err != nil {
				if api.IsNotFound(err) {
					return fmt.Errorf("run %s not found or you are not authorized to delete it", runID)
				}
				return err
			}
			cmdCtx.Renderer.Printf("Run %s deleted successfully.\n", runID)
			return nil
		},
	}
}
