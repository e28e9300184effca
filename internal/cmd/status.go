package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"winctl/internal/ipc"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ipc.NewClient().GetStatus()
			if err != nil {
				return err
			}
			fmt.Printf("daemon running: %v\n", status.DaemonRunning)
			fmt.Printf("uptime: %s\n", time.Duration(status.UptimeSeconds)*time.Second)
			fmt.Printf("windows: %d\n", status.WindowCount)
			fmt.Printf("active workspace: %d\n", status.ActiveWorkspace)
			return nil
		},
	}
}
