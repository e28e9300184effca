package cmd

import (
	"github.com/spf13/cobra"

	"winctl/internal/ipc"
)

// NewLaunchCmd creates the launch command
func NewLaunchCmd() *cobra.Command {
	var appID string

	cmd := &cobra.Command{
		Use:   "launch <command>",
		Short: "Launch a command onto the current workspace",
		Long:  `Spawn a command and have the daemon pull its first window to the current workspace once it appears, focusing it. The window is matched by the class given with --app.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ipc.NewClient().LaunchHere(args[0], appID)
		},
	}

	cmd.Flags().StringVar(&appID, "app", "", "expected window class of the launched application (required)")
	cmd.MarkFlagRequired("app")

	return cmd
}
