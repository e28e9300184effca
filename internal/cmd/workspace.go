package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"winctl/internal/ipc"
)

// NewWorkspaceCmd creates the workspace command group
func NewWorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Query or switch workspaces",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the active workspace index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ipc.NewClient().GetActiveWorkspace()
			if err != nil {
				return err
			}
			fmt.Println(ws)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "switch <index>",
		Short: "Switch to the workspace at index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid workspace %q: %w", args[0], err)
			}
			return ipc.NewClient().SwitchWorkspace(workspace)
		},
	})

	return cmd
}
