package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandListWindows        CommandType = "LIST_WINDOWS"
	CommandGetActiveWindow    CommandType = "GET_ACTIVE_WINDOW"
	CommandGetActiveWorkspace CommandType = "GET_ACTIVE_WORKSPACE"
	CommandGetStatus          CommandType = "GET_STATUS"
	CommandActivate           CommandType = "ACTIVATE"
	CommandResize             CommandType = "RESIZE"
	CommandMoveToWorkspace    CommandType = "MOVE_TO_WORKSPACE"
	CommandSwitchWorkspace    CommandType = "SWITCH_WORKSPACE"
	CommandFocusNextSameApp   CommandType = "FOCUS_NEXT_SAME_APP"
	CommandFocusPrevSameApp   CommandType = "FOCUS_PREV_SAME_APP"
	CommandFocusNextOtherApp  CommandType = "FOCUS_NEXT_OTHER_APP"
	CommandFocusPrevOtherApp  CommandType = "FOCUS_PREV_OTHER_APP"
	CommandFocusNextAnyApp    CommandType = "FOCUS_NEXT_ANY_APP"
	CommandFocusPrevAnyApp    CommandType = "FOCUS_PREV_ANY_APP"
	CommandFocusByClass       CommandType = "FOCUS_BY_CLASS"
	CommandLaunchHere         CommandType = "LAUNCH_HERE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// WindowListData carries the rendered window listing for LIST_WINDOWS.
type WindowListData struct {
	Listing string `json:"listing"`
}

// ActiveWindowData is the data returned by GET_ACTIVE_WINDOW. ID is
// empty when no window has focus.
type ActiveWindowData struct {
	ID string `json:"id"`
}

// WorkspaceData is the data returned by GET_ACTIVE_WORKSPACE.
type WorkspaceData struct {
	Workspace int `json:"workspace"`
}

// StatusData is the data returned by GET_STATUS.
type StatusData struct {
	WindowCount     int   `json:"window_count"`
	ActiveWorkspace int   `json:"active_workspace"`
	UptimeSeconds   int64 `json:"uptime_seconds"`
	DaemonRunning   bool  `json:"daemon_running"`
}

// WindowPayload addresses a window by its canonical or raw id.
type WindowPayload struct {
	ID string `json:"id"`
}

// ResizePayload is the payload for RESIZE.
type ResizePayload struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MoveToWorkspacePayload is the payload for MOVE_TO_WORKSPACE.
type MoveToWorkspacePayload struct {
	ID        string `json:"id"`
	Workspace int    `json:"workspace"`
}

// SwitchWorkspacePayload is the payload for SWITCH_WORKSPACE.
type SwitchWorkspacePayload struct {
	Workspace int `json:"workspace"`
}

// FocusByClassPayload is the payload for FOCUS_BY_CLASS.
type FocusByClassPayload struct {
	Class string `json:"class"`
}

// Focus results reported by FOCUS_BY_CLASS.
const (
	FocusResultOK               = "ok"
	FocusResultNoMatch          = "no_match"
	FocusResultActivationFailed = "activation_failed"
)

// FocusByClassData is the data returned by FOCUS_BY_CLASS.
type FocusByClassData struct {
	Result string `json:"result"`
}

// LaunchHerePayload is the payload for LAUNCH_HERE.
type LaunchHerePayload struct {
	Command string `json:"command"`
	AppID   string `json:"app_id"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
