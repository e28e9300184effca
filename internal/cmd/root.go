package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"winctl/internal/config"
)

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "winctl",
		Short:        "Window control daemon and client",
		Long:         `A window management control service: list, focus, cycle, resize, and move windows across workspaces, and launch applications onto the current workspace.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewDaemonCmd(cfg, log))
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewActiveCmd())
	cmd.AddCommand(NewActivateCmd())
	cmd.AddCommand(NewResizeCmd())
	cmd.AddCommand(NewMoveCmd())
	cmd.AddCommand(NewWorkspaceCmd())
	cmd.AddCommand(NewFocusCmd())
	cmd.AddCommand(NewLaunchCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewMCPCmd(log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
