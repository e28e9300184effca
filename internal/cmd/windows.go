package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"winctl/internal/ipc"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List managed windows",
		Long:  `Print one line per managed window: id, workspace index, class key, and title.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listing, err := ipc.NewClient().ListWindows()
			if err != nil {
				return err
			}
			if listing != "" {
				fmt.Println(listing)
			}
			return nil
		},
	}
}

// NewActiveCmd creates the active command
func NewActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Print the focused window id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ipc.NewClient().GetActiveWindow()
			if err != nil {
				return err
			}
			if id != "" {
				fmt.Println(id)
			}
			return nil
		},
	}
}

// NewActivateCmd creates the activate command
func NewActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Focus a window by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ipc.NewClient().Activate(args[0])
		},
	}
}

// NewResizeCmd creates the resize command
func NewResizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <id> <width> <height>",
		Short: "Resize a window without moving it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid width %q: %w", args[1], err)
			}
			height, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid height %q: %w", args[2], err)
			}
			return ipc.NewClient().Resize(args[0], width, height)
		},
	}
}

// NewMoveCmd creates the move command
func NewMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <workspace>",
		Short: "Move a window to another workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid workspace %q: %w", args[1], err)
			}
			return ipc.NewClient().MoveToWorkspace(args[0], workspace)
		},
	}
}
