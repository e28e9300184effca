package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"winctl/internal/ipc"
)

// NewFocusCmd creates the focus command group
func NewFocusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Cycle focus between windows",
		Long:  `Move focus to an adjacent window on the active workspace, or focus a window by class.`,
	}

	cmd.AddCommand(newCycleCmd("same-app", "Cycle within the active window's class",
		ipc.CommandFocusNextSameApp, ipc.CommandFocusPrevSameApp))
	cmd.AddCommand(newCycleCmd("other-app", "Cycle to a window of a different class",
		ipc.CommandFocusNextOtherApp, ipc.CommandFocusPrevOtherApp))
	cmd.AddCommand(newCycleCmd("any-app", "Cycle across all windows",
		ipc.CommandFocusNextAnyApp, ipc.CommandFocusPrevAnyApp))

	cmd.AddCommand(&cobra.Command{
		Use:   "class <instance.class>",
		Short: "Focus the first window of a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := ipc.NewClient().FocusByClass(args[0])
			if err != nil {
				return err
			}
			switch result {
			case ipc.FocusResultOK:
				return nil
			case ipc.FocusResultNoMatch:
				return fmt.Errorf("no window of class %q", args[0])
			default:
				// Distinct exit code: a window exists but would not take focus.
				fmt.Fprintf(os.Stderr, "Error: found a window of class %q but failed to focus it\n", args[0])
				os.Exit(2)
				return nil
			}
		},
	})

	return cmd
}

func newCycleCmd(policy, short string, next, prev ipc.CommandType) *cobra.Command {
	return &cobra.Command{
		Use:       policy + " <next|prev>",
		Short:     short,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"next", "prev"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var command ipc.CommandType
			switch args[0] {
			case "next":
				command = next
			case "prev":
				command = prev
			default:
				return fmt.Errorf("invalid direction %q; expected next or prev", args[0])
			}
			return ipc.NewClient().FocusCycle(command)
		},
	}
}
