package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"winctl/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// ListWindows retrieves the rendered window listing.
func (c *Client) ListWindows() (string, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWindows})
	if err != nil {
		return "", err
	}

	var data WindowListData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("failed to parse window listing: %w", err)
	}
	return data.Listing, nil
}

// GetActiveWindow retrieves the canonical id of the focused window.
// The id is empty when nothing has focus.
func (c *Client) GetActiveWindow() (string, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetActiveWindow})
	if err != nil {
		return "", err
	}

	var data ActiveWindowData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("failed to parse active window data: %w", err)
	}
	return data.ID, nil
}

// GetActiveWorkspace retrieves the zero-based active workspace index.
func (c *Client) GetActiveWorkspace() (int, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetActiveWorkspace})
	if err != nil {
		return 0, err
	}

	var data WorkspaceData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, fmt.Errorf("failed to parse workspace data: %w", err)
	}
	return data.Workspace, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Activate focuses the window with the given id.
func (c *Client) Activate(id string) error {
	payload, err := json.Marshal(WindowPayload{ID: id})
	if err != nil {
		return fmt.Errorf("failed to marshal activate payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandActivate, Payload: payload})
	return err
}

// Resize changes a window's dimensions without moving it.
func (c *Client) Resize(id string, width, height int) error {
	payload, err := json.Marshal(ResizePayload{ID: id, Width: width, Height: height})
	if err != nil {
		return fmt.Errorf("failed to marshal resize payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandResize, Payload: payload})
	return err
}

// MoveToWorkspace relocates a window to another workspace.
func (c *Client) MoveToWorkspace(id string, workspace int) error {
	payload, err := json.Marshal(MoveToWorkspacePayload{ID: id, Workspace: workspace})
	if err != nil {
		return fmt.Errorf("failed to marshal move payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandMoveToWorkspace, Payload: payload})
	return err
}

// SwitchWorkspace activates the workspace at index.
func (c *Client) SwitchWorkspace(workspace int) error {
	payload, err := json.Marshal(SwitchWorkspacePayload{Workspace: workspace})
	if err != nil {
		return fmt.Errorf("failed to marshal switch payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandSwitchWorkspace, Payload: payload})
	return err
}

// FocusCycle runs one of the focus-cycling commands.
func (c *Client) FocusCycle(command CommandType) error {
	_, err := c.sendRequest(&Request{Command: command})
	return err
}

// FocusByClass focuses the first window of the given class and returns
// the tri-state result string.
func (c *Client) FocusByClass(class string) (string, error) {
	payload, err := json.Marshal(FocusByClassPayload{Class: class})
	if err != nil {
		return "", fmt.Errorf("failed to marshal focus payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandFocusByClass, Payload: payload})
	if err != nil {
		return "", err
	}

	var data FocusByClassData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return "", fmt.Errorf("failed to parse focus data: %w", err)
	}
	return data.Result, nil
}

// LaunchHere spawns a command and asks the daemon to pull its window
// to the current workspace once it appears.
func (c *Client) LaunchHere(command, appID string) error {
	payload, err := json.Marshal(LaunchHerePayload{Command: command, AppID: appID})
	if err != nil {
		return fmt.Errorf("failed to marshal launch payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandLaunchHere, Payload: payload})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
