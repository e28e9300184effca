package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"winctl/internal/ipc"
)

const (
	ServerName    = "winctl"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing window control tools. It is a thin
// adapter over the daemon's IPC surface, so it carries no X connection
// of its own and can run wherever the socket is reachable.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates a new MCP server talking to the daemon socket.
func NewServer(client *ipc.Client) (*Server, error) {
	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("daemon not reachable: %w", err)
	}

	s := &Server{client: client}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List all managed windows, one per line: id, workspace index, class key (instance.class), and title. Also reports the focused window id and the active workspace.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "activate_window",
		Description: "Focus the window with the given id, switching to its workspace and unminimizing it if needed.",
	}, s.handleActivateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_cycle",
		Description: "Move focus to an adjacent window on the active workspace under a cycling policy: same_app stays within the active window's class, other_app jumps to a different class, any_app considers every window.",
	}, s.handleFocusCycle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window to the given pixel dimensions without moving it.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window to another workspace without focusing it.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_workspace",
		Description: "Switch the active workspace.",
	}, s.handleSwitchWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_by_class",
		Description: "Focus the first window whose class key matches, preferring windows on the current workspace. Returns ok, no_match, or activation_failed.",
	}, s.handleFocusByClass)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_here",
		Description: "Launch a command and pull its first window to the current workspace once it appears, focusing it. The window is matched by the expected class.",
	}, s.handleLaunchHere)
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	listing, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{Listing: listing}
	if active, err := s.client.GetActiveWindow(); err == nil {
		out.ActiveWindow = active
	}
	if ws, err := s.client.GetActiveWorkspace(); err == nil {
		out.ActiveWorkspace = ws
	}
	return nil, out, nil
}

func (s *Server) handleActivateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ActivateWindowInput) (*mcpsdk.CallToolResult, ActivateWindowOutput, error) {
	if err := s.client.Activate(args.ID); err != nil {
		return nil, ActivateWindowOutput{}, err
	}
	return nil, ActivateWindowOutput{Activated: true}, nil
}

func (s *Server) handleFocusCycle(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusCycleInput) (*mcpsdk.CallToolResult, FocusCycleOutput, error) {
	command, err := cycleCommand(args.Policy, args.Direction)
	if err != nil {
		return nil, FocusCycleOutput{}, err
	}
	if err := s.client.FocusCycle(command); err != nil {
		return nil, FocusCycleOutput{}, err
	}
	return nil, FocusCycleOutput{Focused: true}, nil
}

func cycleCommand(policy, direction string) (ipc.CommandType, error) {
	next := true
	switch strings.ToLower(direction) {
	case "", "next":
	case "prev", "previous":
		next = false
	default:
		return "", fmt.Errorf("unknown direction %q; expected next or prev", direction)
	}

	switch strings.ToLower(policy) {
	case "same_app":
		if next {
			return ipc.CommandFocusNextSameApp, nil
		}
		return ipc.CommandFocusPrevSameApp, nil
	case "other_app":
		if next {
			return ipc.CommandFocusNextOtherApp, nil
		}
		return ipc.CommandFocusPrevOtherApp, nil
	case "any_app":
		if next {
			return ipc.CommandFocusNextAnyApp, nil
		}
		return ipc.CommandFocusPrevAnyApp, nil
	default:
		return "", fmt.Errorf("unknown policy %q; expected same_app, other_app, or any_app", policy)
	}
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, ResizeWindowOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, ResizeWindowOutput{}, fmt.Errorf("width and height must be positive, got %dx%d", args.Width, args.Height)
	}
	if err := s.client.Resize(args.ID, args.Width, args.Height); err != nil {
		return nil, ResizeWindowOutput{}, err
	}
	return nil, ResizeWindowOutput{Resized: true}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, MoveWindowOutput, error) {
	if err := s.client.MoveToWorkspace(args.ID, args.Workspace); err != nil {
		return nil, MoveWindowOutput{}, err
	}
	return nil, MoveWindowOutput{Moved: true}, nil
}

func (s *Server) handleSwitchWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchWorkspaceInput) (*mcpsdk.CallToolResult, SwitchWorkspaceOutput, error) {
	if err := s.client.SwitchWorkspace(args.Workspace); err != nil {
		return nil, SwitchWorkspaceOutput{}, err
	}
	return nil, SwitchWorkspaceOutput{Switched: true}, nil
}

func (s *Server) handleFocusByClass(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusByClassInput) (*mcpsdk.CallToolResult, FocusByClassOutput, error) {
	result, err := s.client.FocusByClass(args.Class)
	if err != nil {
		return nil, FocusByClassOutput{}, err
	}
	return nil, FocusByClassOutput{Result: result}, nil
}

func (s *Server) handleLaunchHere(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchHereInput) (*mcpsdk.CallToolResult, LaunchHereOutput, error) {
	if err := s.client.LaunchHere(args.Command, args.AppID); err != nil {
		return nil, LaunchHereOutput{}, err
	}
	return nil, LaunchHereOutput{Launched: true}, nil
}
